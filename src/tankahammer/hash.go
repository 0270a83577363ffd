package tankahammer

import (
	"context"
	"crypto/md5"
	"database/sql"
	"log"
	"strings"

	"github.com/okuraya/tanka-hammer/src/tankahammer/db"
)

// DuplicateHash fingerprints a tanka for plagiarism checks. Excluded runes
// are dropped and katakana folded onto hiragana, so quoting style, spacing
// and script choice do not produce a fresh poem.
func DuplicateHash(tanka string) [md5.Size]byte {
	var sb strings.Builder
	for _, c := range tanka {
		if DefaultRules.Classify(c) == ClassExcluded {
			continue
		}
		if c >= 'ァ' && c <= 'ヶ' {
			c -= 'ァ' - 'ぁ'
		}
		sb.WriteRune(c)
	}
	return md5.Sum([]byte(sb.String()))
}

// UpdateHashes ensures all stored tanka have their hashes loaded into the
// hash table. It's intended to be run on a separate goroutine on startup.
func UpdateHashes(sqlDB *sql.DB) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("recovered from panic in UpdateHashes: %v", err)
		}
	}()
	log.Println("beginning UpdateHashes.")
	ctx := context.Background()
	rows, err := sqlDB.QueryContext(ctx, `SELECT message_id, content FROM tanka`)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		log.Println("encountered error while updating hashes,", err)
		return
	}
	defer rows.Close()
	var (
		messageID int
		content   string
	)
	insertCount := 0
	for rows.Next() {
		if err := rows.Scan(&messageID, &content); err != nil {
			log.Println("encountered error while scanning hashes,", err)
			return
		}
		hash := DuplicateHash(content)
		count, _ := db.TankaHashDAO.Upsert(ctx, sqlDB, messageID, hash[:])
		if count != 0 {
			insertCount++
		}
	}
	log.Printf("upserted %d new tanka hashes", insertCount)
}
