// Package chaintest provides blockchain shells for contract tests.
package chaintest

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// NewExecutor returns executor over a fresh single-node chain.
func NewExecutor(tb testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(tb)
	return neotest.NewExecutor(tb, bc, acc, acc)
}

// IteratorToArray drains the iterator returned by a test invocation.
func IteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}
