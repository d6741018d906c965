package slugs

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique transliterates and slugifies a title, appending an incrementing
// numeric suffix until the slug is free. "Apartman Budva" becomes
// "apartman-budva", a second one "apartman-budva-1".
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := slug.Make(title)
	candidate := base

	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
