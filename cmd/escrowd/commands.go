package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/cmd/escrowd/app"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/escrow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log_level"
	flagBind     = "bind"
	flagDebug    = "debug"
	flagForce    = "force"
	flagPath     = "path"
	flagProgram  = "program"
)

// NewRootCmd returns the escrowd command with all subcommands attached.
// Every persistent flag may also be set through an ESCROWD_ prefixed
// environment variable.
func NewRootCmd() *cobra.Command {
	conf := viper.New()
	conf.SetEnvPrefix("escrowd")
	conf.AutomaticEnv()

	root := &cobra.Command{
		Use:           "escrowd",
		Short:         "Two party escrow node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	root.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "one of debug, info, error or none")
	if err := conf.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	logger := func() (log.Logger, error) {
		lvl, err := log.AllowLevel(conf.GetString(flagLogLevel))
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "escrowd")
		return log.NewFilter(logger, lvl), nil
	}

	root.AddCommand(
		initCmd(conf, logger),
		startCmd(conf, logger),
		validateCmd(),
		keysCmd(),
		deriveCmd(),
		versionCmd(),
	)
	return root
}

type loggerFn func() (log.Logger, error)

func initCmd(conf *viper.Viper, logger loggerFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [address]",
		Short: "Initialize app options in genesis file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger()
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool(flagForce)
			return server.InitCmd(app.GenInitOptions, l, conf.GetString(flagHome), force, args)
		},
	}
	cmd.Flags().BoolP(flagForce, "i", false, "overwrite an existing app_state")
	return cmd
}

func startCmd(conf *viper.Viper, logger loggerFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger()
			if err != nil {
				return err
			}
			bind, _ := cmd.Flags().GetString(flagBind)
			debug, _ := cmd.Flags().GetBool(flagDebug)
			return server.StartCmd(app.GenerateApp, l, conf.GetString(flagHome), bind, debug)
		},
	}
	cmd.Flags().String(flagBind, server.DefaultBind, "address server listens on")
	cmd.Flags().Bool(flagDebug, false, "return stack traces in errors")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files initialize the application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.ValidateGenesis(app.Initializers(), args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Create signing keys",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printKey(cmd, crypto.GenPrivKeyEd25519())
		},
	}

	derive := &cobra.Command{
		Use:   "derive <hex seed>",
		Short: "Derive a key from a seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "seed: %s", err)
			}
			path, _ := cmd.Flags().GetString(flagPath)
			key, err := crypto.DeriveKey(seed, path)
			if err != nil {
				return err
			}
			return printKey(cmd, key)
		},
	}
	derive.Flags().String(flagPath, crypto.DefaultPathPrefix+"/0'", "SLIP-0010 derivation path")

	cmd.AddCommand(generate, derive)
	return cmd
}

func printKey(cmd *cobra.Command, key *crypto.PrivateKey) error {
	raw, err := key.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal key")
	}
	addr := key.PublicKey().Address()
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "address: %s\n", addr)
	fmt.Fprintf(out, "bech32:  %s\n", b32)
	fmt.Fprintf(out, "secret:  %X\n", raw)
	return nil
}

func deriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <payer> <receiver>",
		Short: "Print the custody address of an escrow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payer, err := custody.ParseAddress(args[0])
			if err != nil {
				return errors.Wrap(err, "payer")
			}
			receiver, err := custody.ParseAddress(args[1])
			if err != nil {
				return errors.Wrap(err, "receiver")
			}
			program := escrow.DefaultProgramID
			if p, _ := cmd.Flags().GetString(flagProgram); strings.TrimSpace(p) != "" {
				if program, err = custody.ParseAddress(p); err != nil {
					return errors.Wrap(err, "program")
				}
			}

			holding, bump, err := escrow.DeriveAddress(receiver, payer, program)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "holding: %s\nbump:    %d\n", holding, bump)
			return nil
		},
	}
	cmd.Flags().String(flagProgram, "", "program id, defaults to the genesis default")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), custody.Version())
		},
	}
}
