package imaging

import "errors"

// ErrNotEnabled is returned by image operations when OpenCV support was not
// compiled in. Rebuild with -tags opencv to enable them.
var ErrNotEnabled = errors.New("image processing not enabled; rebuild with -tags opencv")
