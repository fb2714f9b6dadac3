package filter

import "github.com/crawlfleet/crawlfleet/pkg/fileutil"

// Load builds a Filter from a mode string and a list file path, per the
// filter-enable/filter-type/filter-path configuration row. An empty path
// under Mode None is the common case and never touches the filesystem.
func Load(modeStr, path string) (Filter, *Error) {
	mode, err := ParseMode(modeStr)
	if err != nil {
		return Filter{}, err
	}
	if mode == None || path == "" {
		return New(mode, nil), nil
	}

	entries, readErr := fileutil.ReadLines(path)
	if readErr != nil {
		return Filter{}, &Error{Message: readErr.Error(), Cause: ErrCauseListUnread}
	}
	return New(mode, entries), nil
}
