package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootStockGroup_WalksToRoot(t *testing.T) {
	parents := map[string]string{
		"Widget A":      "Electronics",
		"Electronics":   "Consumer Goods",
		"Consumer Goods": "",
	}
	require.Equal(t, "Consumer Goods", rootStockGroup("Widget A", parents))
}

func TestRootStockGroup_AlreadyAtRoot(t *testing.T) {
	parents := map[string]string{}
	require.Equal(t, "Finished Goods", rootStockGroup("Finished Goods", parents))
}

func TestRootStockGroup_EmptyNameReturnsEmpty(t *testing.T) {
	require.Equal(t, "", rootStockGroup("", map[string]string{"A": "B"}))
}

// A malformed export with a cyclical parent chain must terminate rather
// than loop forever; the walk is capped at len(parents)+1 hops.
func TestRootStockGroup_CyclicalChainTerminates(t *testing.T) {
	parents := map[string]string{
		"A": "B",
		"B": "A",
	}
	require.NotPanics(t, func() { rootStockGroup("A", parents) })
}
