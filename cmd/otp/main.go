package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jhahn/go-otp/internal/config"
)

// Version is set by an LDFLAG at build time.
var Version = "dev"

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(exitCode(err, os.Stderr))
	}
}

// exitCode prints err unless it is a silent exit and returns the status
// the process should exit with.
func exitCode(err error, w io.Writer) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		if err.Error() != "" {
			fmt.Fprintln(w, err)
		}
		return coder.ExitCode()
	}
	if os.Getenv("OTPDEBUG") == "1" {
		fmt.Fprintf(w, "%+v\n", err)
	} else {
		fmt.Fprintln(w, err)
	}
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "otp"
	app.HelpName = "otp"
	app.Usage = "generate and verify one-time passwords (RFC 4226, RFC 6238)"
	app.Version = Version
	app.Writer = stdout
	app.ErrWriter = stderr
	// Run returns exit errors to the caller instead of calling os.Exit.
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a config file with command defaults (yaml, json or toml)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.GlobalString("config"))
		if err != nil {
			return err
		}
		ctx.App.Metadata[metaConfig] = cfg
		ctx.App.Metadata[metaLogger] = newLogger(ctx.App.ErrWriter, ctx.GlobalBool("debug"))
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if logger, ok := ctx.App.Metadata[metaLogger].(*zap.Logger); ok {
			_ = logger.Sync()
		}
		return nil
	}
	app.Commands = []cli.Command{
		generateCommand(),
		uriCommand(),
		codeCommand(),
		verifyCommand(),
	}
	return app
}

// newLogger writes JSON warnings to w, or human-readable debug output
// when debug is set.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	level := zapcore.WarnLevel
	enc := zapcore.NewJSONEncoder(encCfg)
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func loggerFrom(ctx *cli.Context) *zap.Logger {
	if logger, ok := ctx.App.Metadata[metaLogger].(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

func configFrom(ctx *cli.Context) *config.Config {
	if cfg, ok := ctx.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	cfg, _ := config.Load("")
	return cfg
}
