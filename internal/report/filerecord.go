package report

import (
	"fmt"
	"io"
	"os/user"
	"strconv"

	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/platform"
)

// FileRecordHeader writes the single header line that precedes list-mode
// records.
func FileRecordHeader(w io.Writer, delimiter string) {
	if platform.Supported {
		fmt.Fprintf(w, "type%spath%ssize%spermissions%sowner%smtime\n",
			delimiter, delimiter, delimiter, delimiter, delimiter)
		return
	}
	fmt.Fprintf(w, "type%spath%ssize%sread_only%smtime\n", delimiter, delimiter, delimiter, delimiter)
}

var ownerNames = make(map[uint32]string)

func ownerName(uid uint32) string {
	if name, ok := ownerNames[uid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	ownerNames[uid] = name
	return name
}

// WriteFileRecord writes one delimited record for a file or directory entry
// that survived filtering. On Unix-like platforms it carries octal
// permissions and an owner name (falling back to the numeric uid); on other
// platforms those two fields collapse to a single read-only boolean.
func WriteFileRecord(w io.Writer, delimiter string, item entrymeta.Item) {
	kind := "file"
	if item.Meta.Kind == entrymeta.KindDir {
		kind = "dir"
	}

	if platform.Supported {
		fmt.Fprintf(w, "%s%s%s%s%d%s%o%s%s%s%d\n",
			kind, delimiter, item.Path, delimiter, item.Meta.Size, delimiter,
			item.Meta.Perm, delimiter, ownerName(item.Meta.Owner), delimiter,
			item.Meta.ModTime.Unix())
		return
	}

	readOnly := item.Meta.Perm&0o200 == 0
	fmt.Fprintf(w, "%s%s%s%s%d%s%t%s%d\n",
		kind, delimiter, item.Path, delimiter, item.Meta.Size, delimiter,
		readOnly, delimiter, item.Meta.ModTime.Unix())
}
