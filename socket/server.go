package socket

import (
	"context"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"reelmatch_server/services"
)

// Deps are the services a session runner needs.
type Deps struct {
	Matches *services.MatchService
	Decks   *services.DeckService
	Smart   *services.SmartMatchService
	Runner  services.SessionRunnerConfig
}

// clientSession ties a connection to its runner; the cancel func stops
// the runner's poll loop when the connection goes away.
type clientSession struct {
	runner *services.SessionRunner
	cancel context.CancelFunc
}

// NewSocketServer initializes and returns a new Socket.IO server. Each
// connected client registers a username and gets its own session runner;
// every state change is pushed to the client as a "session:state" event.
// Cross-client coordination still happens only through the store — the
// socket is a one-way surface to the rendering layer.
func NewSocketServer(deps Deps) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "register", func(s socketio.Conn, username string) {
		if username == "" {
			s.Emit("session:error", "username is required")
			return
		}
		if cs, ok := s.Context().(*clientSession); ok && cs != nil {
			cs.cancel()
		}

		runner := services.NewSessionRunner(username, deps.Matches, deps.Decks, deps.Smart, deps.Runner,
			func(snapshot services.SessionSnapshot) {
				s.Emit("session:state", snapshot)
			})
		ctx, cancel := context.WithCancel(context.Background())
		s.SetContext(&clientSession{runner: runner, cancel: cancel})
		go runner.Run(ctx)

		log.Printf("User %s registered on socket %s\n", username, s.ID())
		s.Emit("session:state", runner.Snapshot())
	})

	server.OnEvent("/", "invite", func(s socketio.Conn, payload struct {
		Invitee string `json:"invitee"`
		Mode    string `json:"mode"`
	}) {
		cs, ok := s.Context().(*clientSession)
		if !ok {
			s.Emit("session:error", "register first")
			return
		}
		if err := cs.runner.Invite(context.Background(), payload.Invitee, payload.Mode); err != nil {
			s.Emit("session:error", err.Error())
		}
	})

	server.OnEvent("/", "accept", func(s socketio.Conn) {
		cs, ok := s.Context().(*clientSession)
		if !ok {
			s.Emit("session:error", "register first")
			return
		}
		if err := cs.runner.Accept(context.Background()); err != nil {
			s.Emit("session:error", err.Error())
		}
	})

	server.OnEvent("/", "deck", func(s socketio.Conn) {
		cs, ok := s.Context().(*clientSession)
		if !ok {
			s.Emit("session:error", "register first")
			return
		}
		movies, err := cs.runner.Deck(context.Background())
		if err != nil {
			s.Emit("session:error", err.Error())
			return
		}
		s.Emit("session:deck", movies)
	})

	server.OnEvent("/", "swipe", func(s socketio.Conn, payload struct {
		MovieID   string `json:"movieId"`
		Direction string `json:"direction"`
	}) {
		cs, ok := s.Context().(*clientSession)
		if !ok {
			s.Emit("session:error", "register first")
			return
		}
		if err := cs.runner.Swipe(context.Background(), payload.MovieID, payload.Direction); err != nil {
			s.Emit("session:error", err.Error())
		}
	})

	server.OnEvent("/", "answer", func(s socketio.Conn, answer string) {
		cs, ok := s.Context().(*clientSession)
		if !ok {
			s.Emit("session:error", "register first")
			return
		}
		if err := cs.runner.Answer(context.Background(), answer); err != nil {
			s.Emit("session:error", err.Error())
		}
	})

	server.OnEvent("/", "reset", func(s socketio.Conn) {
		if cs, ok := s.Context().(*clientSession); ok {
			cs.runner.Reset()
		}
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if cs, ok := s.Context().(*clientSession); ok && cs != nil {
			cs.cancel()
		}
		log.Println("Socket disconnected:", s.ID(), reason)
	})

	return server
}
