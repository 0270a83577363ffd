package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okuraya/tanka-hammer/src/tankahammer/db"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func TestMain(m *testing.M) {
	dbPath := fmt.Sprintf(path.Join("%s", "tanka-test.db"), os.TempDir())

	// delete any existing database
	err := os.Truncate(dbPath, 0)

	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("could not truncate database file %s: %v", dbPath, err)
	}

	// open DB and load schema
	DB, err = sql.Open("sqlite3", dbPath)
	defer DB.Close()

	err = db.BootstrapDB(DB)
	if err != nil {
		log.Fatalf("could not open database %s: %v", dbPath, err)
	}

	m.Run()

	os.Remove(dbPath)
}

func TestTankaDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	rows, err := db.TankaDAO.Upsert(ctx, DB, db.Tanka{1, 1, 1, "<@1111>", "たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ"})

	assert.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	tanka, err := db.TankaDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, "たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ", tanka.Content)
	assert.EqualValues(t, "<@1111>", tanka.AuthorMention)

	db.TankaDAO.Upsert(ctx, DB, db.Tanka{1, 1, 1, "<@2222>", "はるすぎてなつきにけらししろたへのころもほすてふあまのかぐやま"})
	assert.NoError(t, err)

	tanka, err = db.TankaDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, "はるすぎてなつきにけらししろたへのころもほすてふあまのかぐやま", tanka.Content)
	assert.EqualValues(t, "<@1111>", tanka.AuthorMention) // upsert only replaces content
}

func TestTankaDAO_Random(t *testing.T) {
	ctx := context.Background()

	db.TankaDAO.Upsert(ctx, DB, db.Tanka{1, 1, 2, "<@1111>", "ひとつめのうた"})
	db.TankaDAO.Upsert(ctx, DB, db.Tanka{1, 1, 3, "<@1111>", "ふたつめのうた"})
	db.TankaDAO.Upsert(ctx, DB, db.Tanka{1, 1, 4, "<@1111>", "みっつめのうた"})

	// should not hit the below rows since filtering by guild_id
	db.TankaDAO.Upsert(ctx, DB, db.Tanka{2, 2, 6, "<@1111>", "よそのうた"})
	db.TankaDAO.Upsert(ctx, DB, db.Tanka{2, 2, 7, "<@1111>", "よそのうた"})
	db.TankaDAO.Upsert(ctx, DB, db.Tanka{2, 2, 8, "<@1111>", "よそのうた"})

	for i := 0; i < 10; i++ {
		result, err := db.TankaDAO.Random(ctx, DB, "1")
		assert.NoError(t, err)
		assert.True(t, 1 <= result.MessageID && result.MessageID <= 4)
		assert.Equal(t, 1, result.GuildID)
		assert.Equal(t, 1, result.ChannelID)
	}

	result, err := db.TankaDAO.Random(ctx, DB, "123") // should be empty
	assert.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestGuildConfigDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	_, err := db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{1, 12, "pos", "neg"})
	assert.NoError(t, err)

	conf, err := db.GuildConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.GuildConfig{1, 12, "pos", "neg"}, conf)

	_, err = db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{1, 4, "pos1", "neg1"})
	assert.NoError(t, err)

	conf, err = db.GuildConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.GuildConfig{1, 4, "pos1", "neg1"}, conf)
}

func TestChannelConfigDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	_, err := db.ChannelConfigDAO.Upsert(ctx, DB, 1, 12)
	assert.NoError(t, err)

	conf, err := db.ChannelConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.ChannelConfig{1, 12}, conf)

	_, err = db.ChannelConfigDAO.Upsert(ctx, DB, 1, 4)
	assert.NoError(t, err)

	conf, err = db.ChannelConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.ChannelConfig{1, 4}, conf)
}

func TestLookupFlags(t *testing.T) {
	ctx := context.Background()

	_, err := db.ChannelConfigDAO.Upsert(ctx, DB, 10, 3)
	assert.NoError(t, err)
	_, err = db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{GuildID: 20, Flags: 4})
	assert.NoError(t, err)

	flags, err := db.LookupFlags(ctx, DB, 20, 10)
	assert.NoError(t, err)

	assert.EqualValues(t, 7, flags)
	assert.True(t, flags.ReactToTanka())
	assert.True(t, flags.ReactToNonTanka())
	assert.True(t, flags.DeleteNonTanka())
	assert.False(t, flags.ExplainNonTanka())
	assert.False(t, flags.ServeRandomTanka())
}

func TestTankaHashDAO(t *testing.T) {
	ctx := context.Background()

	tankaHash := [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	otherHash := [16]byte{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	_, err := db.TankaHashDAO.Upsert(ctx, DB, 143, tankaHash[:])
	assert.NoError(t, err)

	mid, err := db.TankaHashDAO.FindByMD5(ctx, DB, tankaHash[:])
	assert.NoError(t, err)
	assert.EqualValues(t, 143, mid)

	mid, err = db.TankaHashDAO.FindByMD5(ctx, DB, otherHash[:])
	assert.NoError(t, err)
	assert.EqualValues(t, 0, mid)
}

func TestCheckHash(t *testing.T) {
	ctx := context.Background()

	hash := [16]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}

	assert.NoError(t, db.CheckHash(ctx, DB, 500, hash))
	assert.NoError(t, db.CheckHash(ctx, DB, 500, hash)) // same message may re-check

	err := db.CheckHash(ctx, DB, 501, hash)
	assert.Error(t, err) // someone else already sang this one
}
