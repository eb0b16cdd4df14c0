package decode

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Event ... A single decoded emission with arguments in declared order
type Event struct {
	Name string
	Log  *types.Log

	// Indexed dynamic arguments (string, bytes, slices, arrays) are only
	// recoverable as their keccak hash and surface as common.Hash values
	Args []interface{}
}

// EventByName ... Looks up an event definition on a contract ABI
func EventByName(cabi abi.ABI, name string) (abi.Event, bool) {
	event, found := cabi.Events[name]
	return event, found
}

// EmittedBy ... Filters receipt logs down to emissions of one event by one contract
func EmittedBy(logs []*types.Log, addr common.Address, event abi.Event) []*types.Log {
	matched := make([]*types.Log, 0, len(logs))

	for _, log := range logs {
		if log.Address != addr {
			continue
		}

		if len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}

		matched = append(matched, log)
	}

	return matched
}

// Log ... Decodes a single log entry against an event definition
func Log(event abi.Event, log *types.Log) (*Event, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf(missingTopicsErr)
	}

	if log.Topics[0] != event.ID {
		return nil, fmt.Errorf(topicMismatchErr, event.ID.Hex(), log.Topics[0].Hex())
	}

	nonIndexed, err := event.Inputs.NonIndexed().UnpackValues(log.Data)
	if err != nil {
		return nil, fmt.Errorf(unpackErr, event.Name, err)
	}

	indexed := indexedArgs(event.Inputs)
	if len(log.Topics)-1 != len(indexed) {
		return nil, fmt.Errorf(topicCountErr, len(indexed), event.Name, len(log.Topics)-1)
	}

	topicValues := make(map[string]interface{})
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(topicValues, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf(parseTopicsErr, event.Name, err)
		}
	}

	// Weave indexed and non-indexed values back into declared order
	args := make([]interface{}, 0, len(event.Inputs))
	ni := 0

	for i, input := range event.Inputs {
		if input.Indexed {
			args = append(args, topicValues[indexedName(i, input)])
			continue
		}

		args = append(args, nonIndexed[ni])
		ni++
	}

	return &Event{
		Name: event.Name,
		Log:  log,
		Args: args,
	}, nil
}

// indexedArgs ... Extracts the indexed subset of an event's inputs, naming any
// anonymous arguments positionally so topic parsing has a stable key
func indexedArgs(inputs abi.Arguments) abi.Arguments {
	indexed := abi.Arguments{}

	for i, input := range inputs {
		if !input.Indexed {
			continue
		}

		input.Name = indexedName(i, input)
		indexed = append(indexed, input)
	}

	return indexed
}

func indexedName(i int, input abi.Argument) string {
	if input.Name != "" {
		return input.Name
	}

	return fmt.Sprintf("arg%d", i)
}
