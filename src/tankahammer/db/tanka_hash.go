package db

import (
	"context"
	"fmt"

	"github.com/jonbodner/proteus"
)

var TankaHashDAO TankaHashDaoImpl

type TankaHashDaoImpl struct {
	Upsert    func(ctx context.Context, e proteus.ContextExecutor, mid int, md5Sum []byte) (int64, error) `proq:"q:upsert" prop:"mid,md5Sum"`
	FindByMD5 func(ctx context.Context, e proteus.ContextQuerier, md5Sum []byte) (int64, error)           `proq:"q:findByMD5" prop:"md5Sum"`
}

func init() {
	m := proteus.MapMapper{
		"upsert": `INSERT INTO tanka_hash (message_id, md5_sum) VALUES (:mid:, :md5Sum:)
				   ON CONFLICT (message_id)
				   DO UPDATE SET md5_sum = excluded.md5_sum`,
		"findByMD5": `SELECT message_id FROM tanka_hash WHERE md5_sum = :md5Sum:`,
	}
	err := proteus.ShouldBuild(context.Background(), &TankaHashDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}

// CheckHash records the hash for mid, reporting an error when a different
// message already claimed the same poem.
func CheckHash(ctx context.Context, e proteus.ContextWrapper, mid int, hash [16]byte) error {
	found, err := TankaHashDAO.FindByMD5(ctx, e, hash[:])
	if err != nil {
		return fmt.Errorf("error while looking up tanka hash: %w", err)
	}
	if found != 0 && found != int64(mid) {
		return fmt.Errorf("tanka already stored under message_id %d", found)
	}
	if _, err := TankaHashDAO.Upsert(ctx, e, mid, hash[:]); err != nil {
		return fmt.Errorf("error while storing tanka hash: %w", err)
	}
	return nil
}
