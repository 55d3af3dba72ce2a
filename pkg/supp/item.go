package supp

import (
	"github.com/camoto-project/gamecommon/pkg/stream"
)

// Item is one opened supplemental file: the stream holding its
// contents and the callback through which it can be resized.
type Item struct {
	Stream   stream.Stream
	Truncate stream.TruncateCallback
}

// Data maps each required supplemental file to its opened item.
type Data map[ItemType]Item

// Filenames maps each required supplemental file to its name,
// typically derived from the main file's name before anything is
// opened.
type Filenames map[ItemType]string
