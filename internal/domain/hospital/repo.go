package hospital

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Hospital, error)
}
