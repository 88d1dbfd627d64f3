// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	golog "log"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/snpstruct/runner"
	"v.io/x/lib/cmdline"
)

// toolFlags selects and configures the external tools.
type toolFlags struct {
	rnasnp  string
	remurna string
	tools   string
	timeout time.Duration
	tmpDir  string
}

func (f *toolFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.rnasnp, "rnasnp", "RNAsnp", "RNAsnp executable; a bare name is looked up in PATH")
	fs.StringVar(&f.remurna, "remurna", "remuRNA", "remuRNA executable; a bare name is looked up in PATH")
	fs.StringVar(&f.tools, "tools", "rnasnp,remurna", "Comma-separated list of tools to run, in order")
	fs.DurationVar(&f.timeout, "timeout", 30*time.Minute, "Upper bound on a single tool run; 0 means no limit")
	fs.StringVar(&f.tmpDir, "tmp-dir", "", "Directory for per-record temporary files (default os.TempDir())")
}

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "run",
		Short:    "Run the tools on one split of a FASTA file of variants",
		ArgsName: "input_fasta_path output_prefix window [split_count split_index]",
		ArgsLong: `
input_fasta_path is a FASTA file whose record descriptions end in a SNP tag,
such as "G20C". window is the folding window passed to the tools; 0 keeps each
tool's default. With split_count and split_index, only that split of the
records is processed. One table per tool is written to
<output_prefix>_<split_index>_<tool>.csv.`,
	}
	var tf toolFlags
	tf.register(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		args, err := parseRunArgs(argv, true)
		if err != nil {
			return env.UsageErrorf("%v", err)
		}
		ctx := vcontext.Background()
		opts, err := tf.opts(ctx, args)
		if err != nil {
			return err
		}
		return runner.Run(ctx, opts)
	})
	return cmd
}

func newCmdRunAll() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "run-all",
		Short:    "Run every split of a FASTA file of variants concurrently",
		ArgsName: "input_fasta_path output_prefix window split_count",
		ArgsLong: `
Same as "run" for every split_index in [0, split_count). The input is read once
and at most -parallelism splits run at a time.`,
	}
	var tf toolFlags
	tf.register(&cmd.Flags)
	parallelism := cmd.Flags.Int("parallelism", 0, "Maximum number of splits processed at once; 0 = runtime.NumCPU()")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		args, err := parseRunArgs(argv, false)
		if err != nil {
			return env.UsageErrorf("%v", err)
		}
		ctx := vcontext.Background()
		opts, err := tf.opts(ctx, args)
		if err != nil {
			return err
		}
		opts.Parallelism = *parallelism
		return runner.RunAll(ctx, opts)
	})
	return cmd
}

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "merge",
		Short:    "Concatenate the per-split tables of each tool",
		ArgsName: "output_prefix split_count",
		ArgsLong: `
Reads <output_prefix>_<i>_<tool>.csv for every i in [0, split_count) and
writes <output_prefix>_<tool>.csv.`,
	}
	tools := cmd.Flags.String("tools", "rnasnp,remurna", "Comma-separated list of tools whose tables are merged")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		prefix, count, err := parseMergeArgs(argv)
		if err != nil {
			return env.UsageErrorf("%v", err)
		}
		names, err := toolNames(*tools)
		if err != nil {
			return err
		}
		return runner.Merge(vcontext.Background(), prefix, count, names)
	})
	return cmd
}

func main() {
	golog.SetFlags(golog.Ldate | golog.Ltime | golog.Lmicroseconds | golog.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-snpstruct",
			Short:    "Evaluate the structural effect of RNA point mutations with external tools",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdRun(),
				newCmdRunAll(),
				newCmdMerge(),
			},
		})
}
