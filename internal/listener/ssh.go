package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener serves player connections over ssh. Authentication is
// disabled; the host key only keeps clients from warning on every
// connect.
type SshListener struct {
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		port:    port,
		cm:      cm,
		hostKey: hostKey,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(l.hostKey)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for ssh", "port", l.port)

	// Sessions outlive the accept loop until cancelConns fires.
	connCtx, cancelConns := context.WithCancel(context.Background())
	var sessions sync.WaitGroup

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				cancelConns()
				sessions.Wait()
				return nil
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		sessions.Add(1)
		go func() {
			defer sessions.Done()
			l.serveConn(connCtx, conn, cfg)
		}()
	}
}

// serveConn performs the ssh handshake and runs a game session per
// accepted session channel.
func (l *SshListener) serveConn(ctx context.Context, conn net.Conn, cfg *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	slog.InfoContext(ctx, "ssh connection established", "remote", conn.RemoteAddr())

	// Closing sshConn ends the channel range below on shutdown.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		l.serveSession(ctx, newChan)
	}
}

func (l *SshListener) serveSession(ctx context.Context, newChan ssh.NewChannel) {
	ch, requests, err := newChan.Accept()
	if err != nil {
		slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
		return
	}
	defer ch.Close()

	// The client won't forward input until its shell request is
	// answered, so hold the session until that arrives.
	select {
	case <-awaitShell(requests):
	case <-ctx.Done():
		return
	}

	l.cm.AcceptConnection(ctx, newCRLFReadWriter(ch))
}

// awaitShell answers session requests on the channel. Only "shell" is
// granted; pty-req is refused so the client keeps local echo and line
// buffering. The returned channel closes once the shell is granted.
func awaitShell(requests <-chan *ssh.Request) <-chan struct{} {
	ready := make(chan struct{})
	go func() {
		granted := false
		for req := range requests {
			ok := req.Type == "shell"
			req.Reply(ok, nil)
			if ok && !granted {
				granted = true
				close(ready)
			}
		}
	}()
	return ready
}
