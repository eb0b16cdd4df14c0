package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/txpect/txpect"
	"github.com/txpect/txpect/internal/client"
	"github.com/txpect/txpect/internal/config"
	"github.com/txpect/txpect/internal/logging"
)

const (
	cfgPath = "config.env"

	// Exit codes: 0 assertion held, 1 assertion failed, 2 environmental error
	exitFailed = 1
	exitErred  = 2
)

type checkOptions struct {
	txHash   string
	abiPath  string
	address  string
	event    string
	argsJSON string
	negated  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitErred)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "txpect",
		Short:        "Assert contract event emissions against finalized transactions",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCheckCmd())
	return rootCmd
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check one emit assertion against a transaction hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), opts)
		},
	}

	checkCmd.Flags().StringVar(&opts.txHash, "tx", "", "transaction hash to inspect")
	checkCmd.Flags().StringVar(&opts.abiPath, "abi", "", "path to the contract ABI JSON file")
	checkCmd.Flags().StringVar(&opts.address, "address", "", "deployed contract address")
	checkCmd.Flags().StringVar(&opts.event, "event", "", "event name to assert")
	checkCmd.Flags().StringVar(&opts.argsJSON, "args", "", "expected argument values as a JSON array")
	checkCmd.Flags().BoolVar(&opts.negated, "not", false, "assert the event was NOT emitted")

	for _, required := range []string{"tx", "abi", "address", "event"} {
		if err := checkCmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return checkCmd
}

func runCheck(ctx context.Context, opts *checkOptions) error {
	cfg := config.NewConfig(cfgPath)

	logger := logging.New(string(cfg.Environment))
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.RequestTimeout)*time.Second)
	defer cancel()

	ethClient, err := client.NewEthClient(ctx, cfg.RPCEndpoint)
	if err != nil {
		logger.Error("Could not connect to node", zap.String("endpoint", cfg.RPCEndpoint), zap.Error(err))
		os.Exit(exitErred)
	}

	raw, err := os.ReadFile(opts.abiPath)
	if err != nil {
		logger.Error("Could not read ABI file", zap.String("path", opts.abiPath), zap.Error(err))
		os.Exit(exitErred)
	}

	contractABI, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		logger.Error("Could not parse ABI file", zap.String("path", opts.abiPath), zap.Error(err))
		os.Exit(exitErred)
	}

	contract := txpect.NewContract(common.HexToAddress(opts.address), contractABI)
	expectation := txpect.Expect(ethClient, opts.txHash)

	if opts.negated {
		expectation.NotToEmit(contract, opts.event)
	} else {
		expectation.ToEmit(contract, opts.event)

		if opts.argsJSON != "" {
			args, err := parseArgs(opts.argsJSON)
			if err != nil {
				logger.Error("Could not parse expected args", zap.Error(err))
				os.Exit(exitErred)
			}

			expectation.WithArgs(args...)
		}
	}

	if err := expectation.Check(ctx); err != nil {
		var aerr *txpect.AssertionError
		if errors.As(err, &aerr) {
			logger.Error("Assertion failed",
				zap.String("tx_hash", opts.txHash),
				zap.String("event", opts.event),
				zap.String("reason", aerr.Error()))
			os.Exit(exitFailed)
		}

		logger.Error("Could not evaluate assertion", zap.Error(err))
		os.Exit(exitErred)
	}

	logger.Info("Assertion held",
		zap.String("tx_hash", opts.txHash),
		zap.String("event", opts.event))

	return nil
}

// parseArgs ... Decodes a JSON array of expected values; integers become
// big.Int so uint256 arguments compare exactly
func parseArgs(raw string) ([]interface{}, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var values []interface{}
	if err := decoder.Decode(&values); err != nil {
		return nil, err
	}

	converted := make([]interface{}, 0, len(values))
	for _, value := range values {
		conv, err := convertArg(value)
		if err != nil {
			return nil, err
		}

		converted = append(converted, conv)
	}

	return converted, nil
}

func convertArg(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("non-integer argument value: %s", v.String())
		}
		return n, nil

	case []interface{}:
		converted := make([]interface{}, 0, len(v))
		for _, elem := range v {
			conv, err := convertArg(elem)
			if err != nil {
				return nil, err
			}
			converted = append(converted, conv)
		}
		return converted, nil

	case string, bool:
		return v, nil
	}

	return nil, fmt.Errorf("unsupported argument value: %v", value)
}
