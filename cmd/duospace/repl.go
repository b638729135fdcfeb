package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"duospace/client"
	"duospace/domain"
	"duospace/internal"
	"duospace/runtime/workers"
	"duospace/services"
)

type replDeps struct {
	auth     services.IAuthService
	registry services.IRegistryService
	games    services.IGameService
	messages services.IMessageService
	holder   *client.SessionHolder
	view     *client.View
	sup      *workers.Supervisor
	config   internal.Config
	log      *slog.Logger
}

// repl is the interactive terminal front end. Every command resolves
// through the service layer; the rendered state comes from the polled
// View, never from command return values alone.
type repl struct {
	replDeps
	cancelPoller context.CancelFunc
}

func newREPL(deps replDeps) *repl {
	return &repl{replDeps: deps}
}

func (r *repl) loop(ctx context.Context) error {
	color.New(color.FgCyan, color.Bold).Println("duospace")
	fmt.Println(`Type /help for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(r.prompt())
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}
		r.dispatch(ctx, line)
	}
}

func (r *repl) prompt() string {
	session, ok := r.holder.Current()
	if !ok {
		return color.Gray.Render("(logged out) > ")
	}
	return color.Green.Render(session.User.Username + " > ")
}

func (r *repl) dispatch(ctx context.Context, line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch cmd {
	case "/help":
		r.printHelp()
	case "/login":
		err = r.login(ctx, rest)
	case "/logout":
		r.logout()
	case "/create":
		err = r.create(rest)
	case "/join":
		err = r.join(rest)
	case "/leave":
		err = r.leave(ctx)
	case "/space":
		r.printSpace()
	case "/say":
		err = r.say(rest, "")
	case "/reply":
		id, text, _ := strings.Cut(rest, " ")
		err = r.say(strings.TrimSpace(text), id)
	case "/history":
		r.printHistory()
	case "/read":
		err = r.read(rest)
	case "/move":
		err = r.move(rest)
	case "/board":
		r.printBoard()
	case "/reset":
		err = r.reset()
	case "/song":
		err = r.song(ctx, rest)
	case "/feed":
		err = r.printFeed()
	case "/react":
		err = r.react(rest)
	case "/ai":
		err = r.companion(ctx, rest)
	case "/find":
		err = r.find(ctx, rest)
	case "/settings":
		err = r.settings(rest)
	default:
		color.Yellow.Printf("unknown command %s, try /help\n", cmd)
	}

	if err != nil {
		color.Red.Println(err)
	}
}

func (r *repl) printHelp() {
	fmt.Println(`  /login <name>        log in (first login creates the user)
  /logout              drop the local session
  /create [name]       create a space and print its invite code
  /join <code>         join a space by invite code
  /leave               leave the current space
  /space               show the current space and invite code
  /say <text>          send a message
  /reply <id> <text>   reply to a message
  /history             show the message log
  /read <id>           mark a message as read
  /move <0-8>          place your mark
  /board               show the board
  /reset               request a game reset
  /song <url>          share a song
  /feed                show the shared song feed
  /react <song> <r>    react to a song (like, repeat, skip)
  /ai <prompt>         ask the companion
  /find <terms>        search message history
  /settings <k> <v>    readreceipts|lastseen|theme
  /quit                exit`)
}

func (r *repl) session() (domain.Session, error) {
	session, ok := r.holder.Current()
	if !ok {
		return domain.Session{}, fmt.Errorf("not logged in, use /login <name>")
	}
	return session, nil
}

func (r *repl) currentSpace() (*domain.Space, error) {
	space := r.view.Space()
	if space == nil {
		return nil, fmt.Errorf("no space yet, use /create or /join")
	}
	return space, nil
}

func (r *repl) login(ctx context.Context, username string) error {
	session, err := r.auth.Login(username)
	if err != nil {
		return err
	}
	r.holder.Set(session)
	r.startPoller(ctx, session.User.ID)
	color.Green.Printf("logged in as %s\n", session.User.Username)
	return nil
}

// startPoller launches the sync loop for this user under supervision.
// Logging in again tears down the previous loop first.
func (r *repl) startPoller(ctx context.Context, userID string) {
	if r.cancelPoller != nil {
		r.cancelPoller()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	r.cancelPoller = cancel

	poller := client.NewPoller(r.registry, r.messages, r.view, userID,
		r.config.SpacePollInterval, r.config.MessagePollInterval, r.config.PollJitter, r.log)
	r.sup.Start(pollCtx, poller)
}

func (r *repl) logout() {
	if r.cancelPoller != nil {
		r.cancelPoller()
		r.cancelPoller = nil
	}
	r.holder.Clear()
	r.view.SetSpace(nil, time.Now())
	color.Gray.Println("logged out")
}

func (r *repl) create(name string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.registry.CreateSpace(domain.CreateSpaceCommand{UserID: session.User.ID, Name: name})
	if err != nil {
		return err
	}
	r.view.SetSpace(&space, time.Now())
	color.Green.Printf("created %q, invite code: %s\n", space.Name, color.Bold.Render(space.Code))
	return nil
}

func (r *repl) join(code string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.registry.JoinSpace(domain.JoinSpaceCommand{UserID: session.User.ID, Code: code})
	if err != nil {
		return err
	}
	r.view.SetSpace(&space, time.Now())
	color.Green.Printf("joined %q\n", space.Name)
	return nil
}

func (r *repl) leave(ctx context.Context) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	if err := r.registry.LeaveSpace(ctx, session.User.ID, space.ID); err != nil {
		return err
	}
	r.view.SetSpace(nil, time.Now())
	color.Gray.Println("left the space")
	return nil
}

func (r *repl) printSpace() {
	space := r.view.Space()
	if space == nil {
		color.Gray.Println("no space")
		return
	}
	table := newTable("Name", "Code", "Members")
	table.Append([]string{space.Name, space.Code, strings.Join(space.Members, ", ")})
	table.Render()
}

func (r *repl) say(text, replyTo string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	message, err := r.messages.Send(domain.SendMessageCommand{
		SpaceID:   space.ID,
		SenderID:  session.User.ID,
		Content:   text,
		ReplyToID: replyTo,
	})
	if err != nil {
		return err
	}
	r.view.Echo(message)
	return nil
}

func (r *repl) printHistory() {
	table := newTable("ID", "From", "Message", "Read by")
	for _, m := range r.view.Messages() {
		content := m.Content
		if m.ReplyTo != nil {
			content = fmt.Sprintf("↳ %q %s", m.ReplyTo.Content, content)
		}
		table.Append([]string{shortID(m.ID), m.SenderID, content, strconv.Itoa(len(m.ReadBy))})
	}
	table.Render()
}

func (r *repl) read(messageID string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	return r.messages.MarkRead(space.ID, messageID, session.User.ID)
}

func (r *repl) move(arg string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	cell, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("cell must be a number between 0 and 8")
	}
	game, err := r.games.MakeMove(domain.MakeMoveCommand{SpaceID: space.ID, UserID: session.User.ID, Cell: cell})
	if err != nil {
		return err
	}
	renderBoard(game)
	return nil
}

func (r *repl) printBoard() {
	game := r.view.Game()
	if game == nil {
		color.Gray.Println("no game yet, make a move with /move")
		return
	}
	renderBoard(*game)
}

func (r *repl) reset() error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	game, err := r.games.RequestReset(session.User.ID, space.ID)
	if err != nil {
		return err
	}
	if len(game.ResetRequests) == 0 {
		color.Green.Println("board cleared")
	} else {
		color.Yellow.Println("reset requested, waiting for your partner")
	}
	return nil
}

func (r *repl) song(ctx context.Context, url string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	message, err := r.messages.ShareSong(ctx, space.ID, session.User.ID, url)
	if err != nil {
		return err
	}
	r.view.Echo(message)
	if message.Metadata != nil && message.Metadata.MusicData != nil {
		song := message.Metadata.MusicData
		color.Green.Printf("shared %s by %s\n", song.Title, song.Artist)
	}
	return nil
}

func (r *repl) printFeed() error {
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	songs, err := r.messages.SongFeed(space.ID)
	if err != nil {
		return err
	}
	table := newTable("ID", "Title", "Artist", "Platform", "Added by", "Reactions")
	for _, s := range songs {
		reactions := make([]string, 0, len(s.Reactions))
		for user, reaction := range s.Reactions {
			reactions = append(reactions, fmt.Sprintf("%s:%s", user, reaction))
		}
		table.Append([]string{shortID(s.ID), s.Title, s.Artist, string(s.Platform), s.AddedBy, strings.Join(reactions, " ")})
	}
	table.Render()
	return nil
}

func (r *repl) react(rest string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	songID, reaction, _ := strings.Cut(rest, " ")
	return r.messages.ReactToSong(space.ID, songID, session.User.ID, domain.Reaction(strings.TrimSpace(reaction)))
}

func (r *repl) companion(ctx context.Context, prompt string) error {
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	message, err := r.messages.CompanionReply(ctx, space.ID, prompt)
	if err != nil {
		return err
	}
	r.view.Echo(message)
	color.Magenta.Printf("ai: %s\n", message.Content)
	return nil
}

func (r *repl) find(ctx context.Context, terms string) error {
	space, err := r.currentSpace()
	if err != nil {
		return err
	}
	hits, err := r.messages.Search(ctx, space.ID, terms, 20)
	if err != nil {
		return err
	}
	table := newTable("ID", "From", "Message")
	for _, h := range hits {
		table.Append([]string{shortID(h.MessageID), h.SenderID, h.Content})
	}
	table.Render()
	return nil
}

func (r *repl) settings(rest string) error {
	session, err := r.session()
	if err != nil {
		return err
	}
	key, value, _ := strings.Cut(rest, " ")
	settings := session.User.Settings
	switch strings.ToLower(key) {
	case "readreceipts":
		settings.ReadReceipts = value == "on" || value == "true"
	case "lastseen":
		settings.LastSeen = value == "on" || value == "true"
	case "theme":
		if value != string(domain.ThemeLight) && value != string(domain.ThemeDark) {
			return fmt.Errorf("theme must be light or dark")
		}
		settings.Theme = domain.Theme(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	user, err := r.auth.UpdateSettings(session.User.ID, settings)
	if err != nil {
		return err
	}
	session.User = user
	r.holder.Set(session)
	return nil
}

func renderBoard(game domain.GameState) {
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			mark := game.Board[row*3+col]
			if mark == "" {
				mark = color.Gray.Render(strconv.Itoa(row*3 + col))
			}
			cells[col] = mark
		}
		fmt.Println(" " + strings.Join(cells, " | "))
		if row < 2 {
			fmt.Println("---+---+---")
		}
	}
	switch game.Status {
	case domain.StatusWinner:
		color.Green.Printf("winner: %s\n", game.Winner)
	case domain.StatusDraw:
		color.Yellow.Println("draw")
	default:
		fmt.Printf("turn: %s\n", game.CurrentPlayer)
	}
}

func newTable(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
