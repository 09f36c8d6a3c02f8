// Package controller defines the CLI commands to operate the counter contract
// on a local ledger database.
package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.dedis.ch/cwcounter"
	"go.dedis.ch/cwcounter/cli"
	"go.dedis.ch/cwcounter/contracts/counter"
	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/core/execution/native"
	"go.dedis.ch/cwcounter/core/host"
	"go.dedis.ch/cwcounter/core/store/kv"
	"golang.org/x/xerrors"
)

const (
	// ConfigFlag is the name of the global flag to the YAML configuration.
	ConfigFlag = "config"

	// DBFlag is the name of the global flag to the database file. It takes
	// precedence over the configuration.
	DBFlag = "db"

	// ChainFlag is the name of the global flag to the chain identifier. It
	// takes precedence over the configuration.
	ChainFlag = "chain"

	// MetricsFlag is the name of the global flag to print the metrics after
	// the command.
	MetricsFlag = "metrics"

	senderFlag  = "sender"
	counterFlag = "counter"
	valueFlag   = "value"
)

// GlobalFlags returns the flags available to every command of the controller.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  ConfigFlag,
			Usage: "path to the YAML configuration",
		},
		cli.StringFlag{
			Name:  DBFlag,
			Usage: "path to the database file",
		},
		cli.StringFlag{
			Name:  ChainFlag,
			Usage: "identifier of the chain",
		},
		cli.BoolFlag{
			Name:  MetricsFlag,
			Usage: "print the prometheus metrics after the command",
		},
	}
}

// controller is a CLI initializer to operate the counter contract.
//
// - implements cli.Initializer
type controller struct {
	out    io.Writer
	openDB func(path string) (kv.DB, error)
}

// NewController creates a new controller writing the results to the output.
func NewController(out io.Writer) cli.Initializer {
	return controller{
		out:    out,
		openDB: kv.New,
	}
}

// SetCommands implements cli.Initializer.
func (c controller) SetCommands(builder cli.Builder) {
	cmd := builder.SetCommand("instantiate")
	cmd.SetDescription("initialize the counter contract, the sender becomes the owner")
	cmd.SetFlags(
		cli.StringFlag{Name: senderFlag, Usage: "address of the caller", Required: true},
		cli.Uint64Flag{Name: counterFlag, Usage: "initial value of the counter"},
	)
	cmd.SetAction(c.withHost(c.instantiate))

	cmd = builder.SetCommand("execute")
	cmd.SetDescription("apply a transition to the counter")

	sub := cmd.SetSubCommand("increment")
	sub.SetDescription("add one to the counter")
	sub.SetFlags(cli.StringFlag{Name: senderFlag, Usage: "address of the caller", Required: true})
	sub.SetAction(c.withHost(c.increment))

	sub = cmd.SetSubCommand("reset")
	sub.SetDescription("overwrite the counter, only allowed to the owner")
	sub.SetFlags(
		cli.StringFlag{Name: senderFlag, Usage: "address of the caller", Required: true},
		cli.Uint64Flag{Name: valueFlag, Usage: "new value of the counter"},
	)
	sub.SetAction(c.withHost(c.reset))

	cmd = builder.SetCommand("query")
	cmd.SetDescription("read the counter")

	sub = cmd.SetSubCommand("count")
	sub.SetDescription("print the current value of the counter")
	sub.SetAction(c.withHost(c.count))

	cmd = builder.SetCommand("version")
	cmd.SetDescription("print the contract version stored at instantiation")
	cmd.SetAction(c.withHost(c.version))
}

type hostAction func(flags cli.Flags, h *host.Host) error

// withHost opens the database and the host for the duration of the action.
func (c controller) withHost(action hostAction) cli.Action {
	return func(flags cli.Flags) error {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}

		db, err := c.openDB(cfg.DBPath)
		if err != nil {
			return xerrors.Errorf("failed to open database: %v", err)
		}

		defer db.Close()

		exec := native.NewExecution()
		counter.RegisterContract(exec, counter.NewContract())

		h := host.NewHost(db, exec, host.WithChainID(cfg.ChainID))

		err = action(flags, h)
		if err != nil {
			return err
		}

		if flags.Bool(MetricsFlag) {
			err = printMetrics(c.out)
			if err != nil {
				return xerrors.Errorf("failed to print metrics: %v", err)
			}
		}

		return nil
	}
}

func (c controller) instantiate(flags cli.Flags, h *host.Host) error {
	msg, err := counter.EncodeInstantiateMsg(counter.InstantiateMsg{
		Counter: flags.Uint64(counterFlag),
	})
	if err != nil {
		return err
	}

	res, err := h.Instantiate(access.NewAddress(flags.String(senderFlag)), counter.ContractName, msg)
	if err != nil {
		return xerrors.Errorf("failed to instantiate: %w", err)
	}

	c.printResponse(res)

	return nil
}

func (c controller) increment(flags cli.Flags, h *host.Host) error {
	return c.execute(flags, h, counter.Increment{})
}

func (c controller) reset(flags cli.Flags, h *host.Host) error {
	msg := counter.Reset{}
	if flags.IsSet(valueFlag) {
		msg = counter.NewReset(flags.Uint64(valueFlag))
	}

	return c.execute(flags, h, msg)
}

func (c controller) execute(flags cli.Flags, h *host.Host, msg counter.ExecuteMsg) error {
	data, err := counter.EncodeExecuteMsg(msg)
	if err != nil {
		return err
	}

	res, err := h.Execute(access.NewAddress(flags.String(senderFlag)), counter.ContractName, data)
	if err != nil {
		return xerrors.Errorf("failed to execute: %w", err)
	}

	c.printResponse(res)

	return nil
}

func (c controller) count(flags cli.Flags, h *host.Host) error {
	data, err := counter.EncodeQueryMsg(counter.GetCount{})
	if err != nil {
		return err
	}

	out, err := h.Query(counter.ContractName, data)
	if err != nil {
		return xerrors.Errorf("failed to query: %w", err)
	}

	fmt.Fprintln(c.out, string(out))

	return nil
}

func (c controller) version(flags cli.Flags, h *host.Host) error {
	info, err := h.ContractInfo(counter.ContractName)
	if err != nil {
		return xerrors.Errorf("failed to read version: %w", err)
	}

	fmt.Fprintf(c.out, "%s %s\n", info.Contract, info.Version)

	return nil
}

func (c controller) printResponse(res execution.Response) {
	attrs := make([]string, len(res.Attributes))
	for i, attr := range res.Attributes {
		attrs[i] = fmt.Sprintf("%s=%s", attr.Key, attr.Value)
	}

	fmt.Fprintf(c.out, "accepted %s\n", strings.Join(attrs, " "))
}

func loadConfig(flags cli.Flags) (host.Config, error) {
	cfg := host.DefaultConfig()

	if flags.IsSet(ConfigFlag) {
		var err error

		cfg, err = host.LoadConfig(flags.String(ConfigFlag))
		if err != nil {
			return cfg, err
		}
	}

	if flags.IsSet(DBFlag) {
		cfg.DBPath = flags.String(DBFlag)
	}

	if flags.IsSet(ChainFlag) {
		cfg.ChainID = flags.String(ChainFlag)
	}

	return cfg, nil
}

// printMetrics gathers the collectors of the application and prints them in
// the prometheus text format.
func printMetrics(out io.Writer) error {
	registry := prometheus.NewRegistry()

	for _, c := range cwcounter.PromCollectors {
		err := registry.Register(c)
		if err != nil {
			return xerrors.Errorf("failed to register: %v", err)
		}
	}

	families, err := registry.Gather()
	if err != nil {
		return xerrors.Errorf("failed to gather: %v", err)
	}

	for _, family := range families {
		_, err = expfmt.MetricFamilyToText(out, family)
		if err != nil {
			return xerrors.Errorf("failed to write: %v", err)
		}
	}

	return nil
}
