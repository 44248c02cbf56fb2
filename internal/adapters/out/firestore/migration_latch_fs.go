// internal/adapters/out/firestore/migration_latch_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MigrationLatchFS implements cart.MigrationLatch with a marker document
// written via Create: the first caller wins, every later caller sees
// AlreadyExists and knows the migration already happened.
type MigrationLatchFS struct {
	Client *firestore.Client
}

func NewMigrationLatchFS(client *firestore.Client) *MigrationLatchFS {
	return &MigrationLatchFS{Client: client}
}

func (l *MigrationLatchFS) Acquire(ctx context.Context, userID, guestCartID string) (bool, error) {
	if l == nil || l.Client == nil {
		return false, errors.New("migration_latch_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	gid := strings.TrimSpace(guestCartID)
	if uid == "" || gid == "" {
		return false, errors.New("migration_latch_fs: userID and guestCartID are required")
	}

	docID := uid + "__" + gid
	_, err := l.Client.Collection("cartMigrations").Doc(docID).Create(ctx, map[string]any{
		"userId":      uid,
		"guestCartId": gid,
		"migratedAt":  time.Now().UTC(),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
