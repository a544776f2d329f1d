package aggregate

import "strings"

// multiExtension extracts the glossary's "multi-extension": walking
// leftward from the end of name, each ".xxxx" segment (dot plus up to
// four characters — five characters total) is folded into the extension
// as long as it qualifies; the walk stops at the first segment that is
// too long, at a leading dot (so a dotfile like ".gitconfig" has no
// extension), or when no further dot is found. This is what turns
// "archive.tar.gz" into ".tar.gz" rather than just ".gz".
func multiExtension(name string) string {
	boundary := len(name)
	for {
		idx := strings.LastIndexByte(name[:boundary], '.')
		if idx < 0 || idx == 0 {
			break
		}
		if boundary-idx > 5 {
			break
		}
		boundary = idx
	}
	if boundary == len(name) {
		return ""
	}
	return name[boundary:]
}
