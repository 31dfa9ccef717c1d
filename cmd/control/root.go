package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PetroDE/control/internal/dispatch"
	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/project"
	"github.com/PetroDE/control/internal/substitute"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalFlags mirrors the Invocation flag table: one struct field per
// recognized flag, bound once on the root command and read by every verb.
type globalFlags struct {
	debug       bool
	force       bool
	dryRun      bool
	image       string
	name        string
	dockerfile  string
	cache       bool
	noCache     bool
	pull        bool
	noPull      bool
	noVolumes   bool
	noRm        bool
	noVerify    bool
	wipe        bool
	replace     bool
	controlfile string
	dump        bool
	asMe        bool
}

var flags globalFlags

// runtime is the Dispatcher and the bits each verb command needs, built
// once by the root command's PersistentPreRunE after flags are parsed.
type runtime struct {
	dispatcher *dispatch.Dispatcher
	registry   *project.Registry
}

var rt runtime

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "control [services...]",
		Short: "Build, start, stop, and restart container-based services",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return setupRuntime()
		},
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A first argument that names no unit or group is a custom
			// verb from a unit's commands table.
			if len(args) > 0 && len(rt.registry.Flatten(args[0])) == 0 {
				return runVerb(cmd.Context(), args[0], args[1:])
			}
			return runVerb(cmd.Context(), "default", args)
		},
	}

	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "verbose diagnostics")
	root.PersistentFlags().BoolVar(&flags.force, "force", false, "use Kill instead of Stop; forces command-replace")
	root.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "skip engine pulls and builds during build verbs (other verbs still act)")
	root.PersistentFlags().StringVar(&flags.image, "image", "", "override the image tag of a single selected service")
	root.PersistentFlags().StringVar(&flags.name, "name", "", "override the container name of a single selected service")
	root.PersistentFlags().StringVar(&flags.dockerfile, "dockerfile", "", "override source descriptor of a single selected service")
	root.PersistentFlags().BoolVar(&flags.cache, "cache", false, "force build cache on")
	root.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "force build cache off")
	root.PersistentFlags().BoolVar(&flags.pull, "pull", false, "always pull upstream/service image before acting")
	root.PersistentFlags().BoolVar(&flags.noPull, "no-pull", false, "never pull upstream/service image before acting")
	root.PersistentFlags().BoolVar(&flags.noVolumes, "no-volumes", false, "suppress all volume binds during start")
	root.PersistentFlags().BoolVar(&flags.noRm, "no-rm", false, "do not remove intermediate build layers")
	root.PersistentFlags().BoolVar(&flags.noVerify, "no-verify", false, "skip registry TLS verification")
	root.PersistentFlags().BoolVar(&flags.wipe, "wipe", false, "remove volumes after stopping (DANGEROUS)")
	root.PersistentFlags().BoolVar(&flags.replace, "replace", false, "take down a running container for the duration of a custom command")
	root.PersistentFlags().StringVar(&flags.controlfile, "controlfile", "Controlfile.yml", "override root descriptor location")
	root.PersistentFlags().BoolVar(&flags.dump, "dump", false, "print equivalent engine CLI instead of executing")
	root.PersistentFlags().BoolVar(&flags.asMe, "as-me", false, "inject UID:GID as the container user")

	root.AddCommand(
		buildCommand(),
		buildProdCommand(),
		startCommand(),
		stopCommand(),
		restartCommand(),
		openCommand(),
	)
	return root
}

func setupRuntime() error {
	root, err := filepath.Abs(flags.controlfile)
	if err != nil {
		return err
	}
	projectDir := filepath.Dir(root)

	ambient := substitute.AmbientVars(projectDir, substitute.NewSessionUUID())
	layered, err := substitute.Layer(ambient, substitute.ProcessEnv(), nil)
	if err != nil {
		return fmt.Errorf("layering ambient variables: %w", err)
	}

	reg, err := project.Resolve(root, layered)
	if err != nil {
		return err
	}

	eng, err := engine.NewDocker()
	if err != nil {
		return err
	}

	opts := dispatch.Options{
		Force: flags.force,
		Wipe:  flags.wipe,
		// --force also forces command-replace in open/custom flows, per
		// the Invocation flag table.
		Replace:     flags.replace || flags.force,
		NoVolumes:   flags.noVolumes,
		DryRun:      flags.dryRun,
		NoCache:     flags.noCache,
		NoRemove:    flags.noRm,
		Env:         "dev",
		EnvFileVals: map[string]string{},
		Progress:    os.Stdout,
	}
	switch {
	case flags.pull:
		opts.Pull = dispatch.PullAlways
	case flags.noPull:
		opts.Pull = dispatch.PullNever
	default:
		opts.Pull = dispatch.PullUnset
	}

	rt = runtime{
		dispatcher: dispatch.New(eng, reg, opts),
		registry:   reg,
	}
	return nil
}

// runVerb resolves args (empty means every required service), and either
// dispatches verb through the engine or, when --dump is set, prints the
// equivalent CLI invocation for each resolved unit without touching the
// engine.
func runVerb(ctx context.Context, verb string, args []string) error {
	names := args
	if len(names) == 0 {
		names = []string{"required"}
	}

	if flags.dump {
		return dumpOnly(names)
	}
	return rt.dispatcher.Dispatch(ctx, verb, names)
}

func dumpOnly(names []string) error {
	for _, name := range names {
		members := rt.registry.Flatten(name)
		if len(members) == 0 {
			members = []string{name}
		}
		for _, m := range members {
			svc, ok := rt.registry.Units[m]
			if !ok {
				continue
			}
			fmt.Println(svc.Dump("run", "dev", true, nil))
		}
	}
	return nil
}
