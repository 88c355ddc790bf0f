package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeIdentity(t *testing.T) {
	require.Equal(t, ActionSet{}, Merge())

	x := ActionSet{CanView: true, CanUpdate: true}
	require.Equal(t, x, Merge(x))
	require.Equal(t, x, Merge(x, ActionSet{}))
}

func TestMergeIdempotent(t *testing.T) {
	x := ActionSet{CanView: true, CanDelete: true}
	require.Equal(t, x, Merge(x, x))
	require.Equal(t, x, Merge(x, x, x))
}

func TestMergeCommutativeAssociative(t *testing.T) {
	sets := []ActionSet{
		{CanView: true},
		{CanCreate: true, CanUpdate: true},
		{CanDelete: true},
		{},
		FullAccess(),
	}
	for _, a := range sets {
		for _, b := range sets {
			require.Equal(t, Merge(a, b), Merge(b, a))
			for _, c := range sets {
				require.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))
			}
		}
	}
}

func TestMergeNeverLosesFlags(t *testing.T) {
	merged := Merge(
		ActionSet{CanView: true},
		ActionSet{CanCreate: true},
		ActionSet{CanUpdate: true},
		ActionSet{CanDelete: true},
	)
	require.Equal(t, FullAccess(), merged)
}

func TestActionSetHas(t *testing.T) {
	set := ActionSet{CanView: true, CanUpdate: true}
	require.True(t, set.Has(ActionRead))
	require.True(t, set.Has(ActionWrite))
	require.False(t, set.Has(ActionCreate))
	require.False(t, set.Has(ActionDelete))
	require.False(t, set.Has(Action("export")))
}
