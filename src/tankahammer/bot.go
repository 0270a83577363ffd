package tankahammer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/okuraya/tanka-hammer/src/tankahammer/db"
)

type Config struct {
	Token          string
	ActionFlags    db.ConfigFlag
	PositiveReacts []string
	NegativeReacts []string
	DBPath         string

	Debug bool
}

func (c Config) String() string {
	return fmt.Sprintf("\tFlags: %s\n\tDBPath: %s\n\tDebug: %t\n", c.ActionFlags, c.DBPath, c.Debug)
}

type TankaHammer struct {
	session *discordgo.Session
	db      *sql.DB

	config Config

	channelCache map[string]*discordgo.Channel
	dmCache      map[string]*discordgo.Channel
}

func NewTankaHammer(config Config) TankaHammer {
	log.Printf("Tanka Bot Config:\n%v", config)
	return TankaHammer{
		config:       config,
		channelCache: make(map[string]*discordgo.Channel),
		dmCache:      make(map[string]*discordgo.Channel),
	}
}

func (h *TankaHammer) Open() error {
	var err error
	h.db, err = sql.Open("sqlite3", h.config.DBPath)
	if err != nil {
		log.Println("error opening database,", err)
		return err
	}
	if err := db.BootstrapDB(h.db); err != nil {
		log.Println("error bootstrapping database,", err)
		return err
	}
	go UpdateHashes(h.db)

	h.session, err = discordgo.New("Bot " + h.config.Token)
	if err != nil {
		log.Println("error creating Discord session,", err)
		return err
	}

	if h.config.Debug {
		h.session.LogLevel = discordgo.LogDebug
	}

	h.session.AddHandler(h.ReceiveNewMessage)

	h.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	if h.config.ActionFlags.ReactToTanka() || h.config.ActionFlags.ReactToNonTanka() {
		h.session.Identify.Intents |= discordgo.IntentsGuildMessageReactions | discordgo.IntentsDirectMessageReactions
	}

	err = h.session.Open()
	if err != nil {
		log.Println("error opening connection,", err)
		return err
	}
	return nil
}

func (h *TankaHammer) Close() error {
	if h.db != nil {
		if err := h.db.Close(); err != nil {
			log.Println("error closing database,", err)
		}
	}
	return h.session.Close()
}

func (h *TankaHammer) ReceiveNewMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic on content, %s, panicking on: %v\n%v", flatten(m.Content), r, debug.Stack())
			panic(r)
		}
	}()
	if m.Author.Bot { // prevent SkyNet; don't talk to bots
		return
	}
	if strings.HasPrefix(m.Content, "!tanka ") {
		h.HandleAdminCommand(s, m.Message)
		return
	}
	if h.mentionsMe(s, m) {
		h.ServeRandomTanka(s, m)
		return
	}
	if err := IsTanka(m.Content); err == nil {
		log.Printf("received tanka: %s\n", flatten(m.Content))
		h.HandleTanka(s, m)
	} else {
		h.HandleNonTanka(s, m, err)
	}
}

// flags combines the flags the server was started with and whatever the
// guild and channel admins have stored for themselves.
func (h *TankaHammer) flags(m *discordgo.MessageCreate) db.ConfigFlag {
	result := h.config.ActionFlags
	gid, err1 := strconv.Atoi(m.GuildID)
	cid, err2 := strconv.Atoi(m.ChannelID)
	if err1 != nil || err2 != nil {
		return result
	}
	stored, err := db.LookupFlags(context.Background(), h.db, gid, cid)
	if err != nil {
		log.Println("could not look up stored feature flags,", err)
		return result
	}
	return result.Or(stored)
}

func (h *TankaHammer) HandleTanka(s *discordgo.Session, m *discordgo.MessageCreate) {
	if h.flags(m).ReactToTanka() {
		h.react(s, m, randomString(h.config.PositiveReacts))
	}
	h.SaveTanka(m)
}

func (h *TankaHammer) SaveTanka(m *discordgo.MessageCreate) {
	ctx := context.Background()
	gid, err := strconv.Atoi(m.GuildID)
	if err != nil {
		return // DMs carry no guild ID; nothing to store
	}
	cid, err := strconv.Atoi(m.ChannelID)
	if err != nil {
		log.Println("could not parse channelID as integer,", m.ChannelID)
		return
	}
	mid, err := strconv.Atoi(m.ID)
	if err != nil {
		log.Println("could not parse messageID as integer,", m.ID)
		return
	}
	if err := db.CheckHash(ctx, h.db, mid, DuplicateHash(m.Content)); err != nil {
		log.Println("not storing tanka,", err)
		return
	}
	_, err = db.TankaDAO.Upsert(ctx, h.db, db.Tanka{
		GuildID:       gid,
		ChannelID:     cid,
		MessageID:     mid,
		AuthorMention: m.Author.Mention(),
		Content:       m.Content,
	})
	if err != nil {
		log.Println("could not store tanka,", err)
	}
}

func (h *TankaHammer) HandleNonTanka(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	flags := h.flags(m)
	if flags.DeleteNonTanka() {
		h.Delete(s, m)
		return
	}

	if flags.ReactToNonTanka() {
		h.react(s, m, randomString(h.config.NegativeReacts))
		log.Println("reacted to non-tanka,", m.ID, flatten(m.Content))
	}

	if isDM, err2 := h.isDM(s, m.ChannelID); err2 == nil && isDM && flags.ExplainNonTanka() {
		h.ExplainTanka(s, m, err)
	} else if err2 != nil {
		log.Println("could not lookup channel,", err2)
	}
}

func (h *TankaHammer) ServeRandomTanka(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !h.flags(m).ServeRandomTanka() {
		return
	}
	tanka, err := db.TankaDAO.Random(context.Background(), h.db, m.GuildID)
	if err != nil {
		log.Println("could not fetch a random tanka,", err)
		return
	}
	if tanka.Content == "" {
		return
	}
	msg := fmt.Sprintf("%s\nas once sung by %s", quote(Analyze(tanka.Content).String()), tanka.AuthorMention)
	if _, err := s.ChannelMessageSend(m.ChannelID, msg); err != nil {
		log.Println("could not send tanka to channel,", err)
	}
}

func (h *TankaHammer) Delete(s *discordgo.Session, m *discordgo.MessageCreate) {
	err := s.ChannelMessageDelete(m.ChannelID, m.Message.ID)
	if err != nil {
		log.Println("could not delete message from channel,", err)
		return
	}
	dmChannel, err := h.createDMChannel(s, m.Author.ID)
	if err != nil {
		log.Println("could not create user DM channel,", err)
		return
	}
	c, err := h.lookupChannel(s, m.ChannelID)
	if err != nil {
		log.Println("could not lookup message ChannelID,", err)
		return
	}
	explanation := fmt.Sprintf("I deleted the message you just sent to %s since I didn't think it was a proper tanka:\n %s", c.Mention(), quote(m.Content))
	_, err = s.ChannelMessageSend(dmChannel.ID, explanation)
	if err != nil {
		log.Println("could not send message to user DM channel,", err)
		return
	}
	log.Println("deleted message,", m.ID, flatten(m.Content))
}

func (h *TankaHammer) ExplainTanka(s *discordgo.Session, m *discordgo.MessageCreate, explainErr error) {
	if explainErr == nil {
		log.Println("tried to explain a non-tanka without an error,", flatten(m.Content))
		return
	}
	dmChannel, err := h.createDMChannel(s, m.Author.ID)
	if err != nil {
		log.Println("could not create user DM channel,", err)
		return
	}
	a := Analyze(strings.TrimSpace(m.Content))
	msg := fmt.Sprintf("%s\n%s\nI counted %d sounds in total.", explainErr.Error(), quote(a.String()), a.TotalMora)
	if a.OffStandard() {
		msg += fmt.Sprintf(" That is well off the standard %d.", PatternTotal)
	}
	_, err = s.ChannelMessageSendReply(dmChannel.ID, msg, m.MessageReference)
	if err != nil {
		log.Println("could not send message to user DM channel,", err)
		return
	}
}

func (h *TankaHammer) mentionsMe(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if s.State == nil || s.State.User == nil {
		return false
	}
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			return true
		}
	}
	return false
}

func (h *TankaHammer) isDM(s *discordgo.Session, channelID string) (bool, error) {
	c, err := h.lookupChannel(s, channelID)
	if err != nil {
		return false, err
	}
	return c.Type == discordgo.ChannelTypeDM && len(c.Recipients) == 1, nil
}

func (h *TankaHammer) react(s *discordgo.Session, m *discordgo.MessageCreate, reaction string) {
	err := s.MessageReactionAdd(m.ChannelID, m.Message.ID, reaction)
	if err != nil {
		log.Println("could not add emoji reaction,", err)
		return
	}
}

func (h *TankaHammer) createDMChannel(s *discordgo.Session, authorID string) (*discordgo.Channel, error) {
	if c, ok := h.dmCache[authorID]; ok {
		return c, nil
	}
	c, err := s.UserChannelCreate(authorID)
	if err != nil {
		return nil, err
	}
	log.Println("retrieved new DM channel for user", authorID)
	h.channelCache[c.ID] = c
	h.dmCache[authorID] = c
	return c, nil
}

func (h *TankaHammer) lookupChannel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if c, ok := h.channelCache[channelID]; ok {
		return c, nil
	}
	c, err := s.Channel(channelID)
	if err != nil {
		return nil, err
	}
	log.Println("looked up channel", channelID)
	h.channelCache[channelID] = c
	if c.Type == discordgo.ChannelTypeDM && len(c.Recipients) == 1 {
		h.dmCache[c.Recipients[0].ID] = c
	}
	return c, nil
}

func randomString(strs []string) string {
	return strs[rand.Intn(len(strs))]
}

func quote(str string) string {
	return "> " + strings.ReplaceAll(str, "\n", "\n> ")
}

func flatten(str string) string {
	return strings.ReplaceAll(str, "\n", "\\n")
}
