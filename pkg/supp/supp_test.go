package supp_test

import (
	"testing"

	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/camoto-project/gamecommon/pkg/supp"
	"github.com/stretchr/testify/require"
)

func TestItemTypeString(t *testing.T) {
	require.Equal(t, "Dictionary", supp.Dictionary.String())
	require.Equal(t, "FAT", supp.FAT.String())
	require.Equal(t, "Palette", supp.Palette.String())
	require.Equal(t, "Instruments", supp.Instruments.String())
	require.Equal(t, "Unknown", supp.ItemType(99).String())
}

func TestData(t *testing.T) {
	fat := stream.NewMemoryStreamFromString("FATDATA")
	data := supp.Data{
		supp.FAT: {Stream: fat, Truncate: fat.Truncate},
	}

	item, ok := data[supp.FAT]
	require.True(t, ok)
	got, err := stream.ReadString(item.Stream, 7)
	require.NoError(t, err)
	require.Equal(t, "FATDATA", got)

	require.NoError(t, item.Truncate(3))
	size, err := item.Stream.Size()
	require.NoError(t, err)
	require.Equal(t, int64(3), size)
}

func TestFilenames(t *testing.T) {
	names := supp.Filenames{
		supp.Palette: "game.pal",
		supp.FAT:     "game.fat",
	}
	require.Equal(t, "game.pal", names[supp.Palette])
	require.Len(t, names, 2)
}
