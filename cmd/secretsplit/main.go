// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary is the main entrypoint for the secretsplit command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/secretsplit/client"
	"github.com/GoogleCloudPlatform/secretsplit/config"
	"github.com/GoogleCloudPlatform/secretsplit/failure"
	"github.com/GoogleCloudPlatform/secretsplit/input"
	"github.com/GoogleCloudPlatform/secretsplit/naming"
	"github.com/GoogleCloudPlatform/secretsplit/validate"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

const (
	// The current version, displayed via the `version` subcommand.
	secretsplitVersion string = "0.1.0"

	// Setting this environment variable to 1 prints a backtrace with errors.
	backtraceEnv string = "SECRETSPLIT_BACKTRACE"
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// commonFlags are shared by split and recover.
type commonFlags struct {
	configFile string
	verbose    bool
}

func (c *commonFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.configFile, "config-file", config.DefaultPath(), "Path to a secretsplit YAML file. Optional.")
	f.BoolVar(&c.verbose, "v", false, "Print progress notices to stderr.")
	f.BoolVar(&c.verbose, "verbose", false, "Same as -v.")
}

// load reads the config file and turns on glog output when verbose.
func (c *commonFlags) load(f *flag.FlagSet) (*config.Config, error) {
	if c.verbose {
		if err := flag.Set("logtostderr", "true"); err != nil {
			glog.Warningf("Failed to route logs to stderr: %v", err.Error())
		}
	}
	return config.Load(c.configFile, isSet(f, "config-file"))
}

// isSet reports whether any of the named flags was given on the command line.
func isSet(f *flag.FlagSet, names ...string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		for _, n := range names {
			if fl.Name == n {
				set = true
			}
		}
	})
	return set
}

// fail prints err with its causes and returns the failure exit status.
func fail(err error, cfg *config.Config) subcommands.ExitStatus {
	backtrace := os.Getenv(backtraceEnv) == "1"
	if cfg != nil && cfg.Backtrace {
		backtrace = true
	}
	failure.Report(stderr, err, backtrace)
	return subcommands.ExitFailure
}

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	commonFlags
	k, n      string
	outDir    string
	shareTmpl string
	sign      bool
	overwrite bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a secret into n shares, any k of which recover it"
}
func (*splitCmd) Usage() string {
	return fmt.Sprintf(`Usage: secretsplit split -k <K> -n <N> -o <DIR> [--sign] [--share-tmpl=<TEMPLATE>] [--overwrite] [-v] <INPUT|->

Examples:
  Split secret.txt into 3 shares, any 2 of which recover it:
    $ secretsplit split -k 2 -n 3 -o /tmp/out secret.txt

  Split a secret read from stdin into signed shares named part-0 to part-4:
    $ my-application | secretsplit split -k 3 -n 5 -o /tmp/out --sign --share-tmpl="part-%s" -

  The template must contain %s exactly once; it defaults to %q.
  Defaults for --share-tmpl, --sign and --overwrite are read from %s
  when it exists.

Flags:
`, naming.Placeholder, naming.Placeholder, naming.DefaultTemplate, config.DefaultPath())
	// The flags are automatically printed after the returned text.
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	s.commonFlags.setFlags(f)
	f.StringVar(&s.k, "k", "", "Number of shares needed to recover the secret, 1 to 255.")
	f.StringVar(&s.n, "n", "", "Number of shares to generate, k to 255.")
	f.StringVar(&s.outDir, "o", "", "Existing directory to write the shares to.")
	f.StringVar(&s.outDir, "output", "", "Same as -o.")
	f.StringVar(&s.shareTmpl, "share-tmpl", naming.DefaultTemplate, "Share file name template.")
	f.BoolVar(&s.sign, "sign", false, "Sign the shares so that recovery can verify them.")
	f.BoolVar(&s.overwrite, "overwrite", false, "Replace existing share files instead of failing.")
}

func (s *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := s.load(f)
	if err != nil {
		return fail(err, nil)
	}
	if err := s.run(f, cfg); err != nil {
		return fail(err, cfg)
	}
	return subcommands.ExitSuccess
}

func (s *splitCmd) run(f *flag.FlagSet, cfg *config.Config) error {
	if s.k == "" {
		return failure.New(failure.InvalidParameters, "missing quorum, use -k")
	}
	if s.n == "" {
		return failure.New(failure.InvalidParameters, "missing number of shares, use -n")
	}
	k, err := validate.StrictlyPositive(s.k)
	if err != nil {
		return err
	}
	n, err := validate.StrictlyPositive(s.n)
	if err != nil {
		return err
	}
	if err := validate.Quorum(k, n); err != nil {
		return err
	}

	if s.outDir == "" {
		return failure.New(failure.InvalidParameters, "missing output directory, use -o")
	}
	if err := validate.Directory(s.outDir); err != nil {
		return err
	}

	pattern := s.shareTmpl
	if !isSet(f, "share-tmpl") && cfg.ShareTemplate != "" {
		pattern = cfg.ShareTemplate
	}
	tmpl, err := naming.Parse(pattern)
	if err != nil {
		return err
	}
	sign := s.sign
	if !isSet(f, "sign") {
		sign = cfg.Sign
	}
	overwrite := s.overwrite
	if !isSet(f, "overwrite") {
		overwrite = cfg.Overwrite
	}

	if f.NArg() > 1 {
		return failure.New(failure.InvalidParameters, "expected at most one input, got %d", f.NArg())
	}
	arg := f.Arg(0)
	if arg != "" {
		if err := validate.FileOrStdin(arg); err != nil {
			return err
		}
	}
	in, err := input.FromArg(arg)
	if err != nil {
		return err
	}
	defer in.Close()
	if s.verbose {
		glog.Infof("Splitting %s into %s with template %q.", in.Name(), s.outDir, tmpl.String())
	}

	c := client.SecretSplitClient{Verbose: s.verbose}
	_, err = c.Split(client.SplitRequest{
		K:         k,
		N:         n,
		Input:     in,
		OutputDir: s.outDir,
		Template:  tmpl,
		Sign:      sign,
		Overwrite: overwrite,
	})
	return err
}

// recoverCmd handles CLI options for the recover command.
type recoverCmd struct {
	commonFlags
	output string
	verify bool
	utf8   bool
}

func (*recoverCmd) Name() string { return "recover" }
func (*recoverCmd) Synopsis() string {
	return "recovers a secret from a quorum of shares"
}
func (*recoverCmd) Usage() string {
	return `Usage: secretsplit recover [-o <FILE>] [--verify] [--utf8] [-v] <SHARE>...

Examples:
  Recover a secret from two shares into recovered.txt:
    $ secretsplit recover -o recovered.txt /tmp/out/share_0 /tmp/out/share_1

  Recover from signed shares, checking their signatures, and print it as text:
    $ secretsplit recover --verify --utf8 /tmp/out/part-*

  Without -o, or with -o -, the secret is written to stdout as raw bytes:
    $ secretsplit recover /tmp/out/share_0 /tmp/out/share_2 | my-application

Flags:
`
}
func (r *recoverCmd) SetFlags(f *flag.FlagSet) {
	r.commonFlags.setFlags(f)
	f.StringVar(&r.output, "o", "", "File to write the secret to, or - for stdout. Defaults to stdout.")
	f.StringVar(&r.output, "output", "", "Same as -o.")
	f.BoolVar(&r.verify, "verify", false, "Check share signatures before recovering.")
	f.BoolVar(&r.utf8, "utf8", false, "Print the secret as UTF-8 text when writing to stdout.")
}

func (r *recoverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := r.load(f)
	if err != nil {
		return fail(err, nil)
	}

	verify := r.verify
	if !isSet(f, "verify") {
		verify = cfg.Verify
	}
	c := client.SecretSplitClient{Stdout: stdout, Verbose: r.verbose}
	err = c.Recover(client.RecoverRequest{
		SharePaths: f.Args(),
		Output:     r.output,
		Verify:     verify,
		UTF8:       r.utf8,
	})
	if err != nil {
		return fail(err, cfg)
	}
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: secretsplit version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(stdout, "secretsplit version %s\n", secretsplitVersion)
	return subcommands.ExitSuccess
}

// newCommander registers every subcommand, with s and r as aliases of split
// and recover, on a commander reading its arguments from topFlags.
func newCommander(topFlags *flag.FlagSet) *subcommands.Commander {
	cdr := subcommands.NewCommander(topFlags, "secretsplit")
	splitCommand, recoverCommand := &splitCmd{}, &recoverCmd{}
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(splitCommand, "")
	cdr.Register(recoverCommand, "")
	cdr.Register(subcommands.Alias("s", splitCommand), "")
	cdr.Register(subcommands.Alias("r", recoverCommand), "")
	cdr.Register(&versionCmd{}, "")
	return cdr
}

func main() {
	flag.Parse()

	ctx := context.Background()
	status := newCommander(flag.CommandLine).Execute(ctx)
	glog.Flush()
	os.Exit(int(status))
}
