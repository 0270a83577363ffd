package db

import (
	"context"

	"github.com/jonbodner/proteus"
)

type Tanka struct {
	GuildID       int    `prof:"guild_id"`
	ChannelID     int    `prof:"channel_id"`
	MessageID     int    `prof:"message_id"`
	AuthorMention string `prof:"author_mention"`
	Content       string `prof:"content"`
}

var TankaDAO TankaDaoImpl

type TankaDaoImpl struct {
	Upsert func(ctx context.Context, e proteus.ContextExecutor, t Tanka) (int64, error)     `proq:"q:upsert" prop:"t"`
	Random func(ctx context.Context, e proteus.ContextQuerier, guildID string) (Tanka, error) `proq:"q:random" prop:"guildID"`
	// FindByID is only intended for testing
	FindByID func(ctx context.Context, e proteus.ContextQuerier, messageID int) (Tanka, error) `proq:"q:findByID" prop:"messageID"`
}

func init() {
	m := proteus.MapMapper{
		"upsert": `INSERT INTO tanka (guild_id, channel_id, message_id, author_mention, content)
				   VALUES (:t.GuildID:,:t.ChannelID:,:t.MessageID:,:t.AuthorMention:,:t.Content:)
				   ON CONFLICT(guild_id, channel_id, message_id)
				   DO UPDATE SET content = excluded.content`,
		"findByID": `SELECT * FROM tanka WHERE message_id = :messageID:`,
		"random":   `SELECT * FROM tanka WHERE guild_id = :guildID: ORDER BY RANDOM() LIMIT 1`,
	}
	err := proteus.ShouldBuild(context.Background(), &TankaDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}
