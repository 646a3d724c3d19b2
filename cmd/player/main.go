package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"

	"bombreveal/internal/shared"
)

func main() {
	app := &cli.App{
		Name:  "player",
		Usage: "join a room and click cells from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: "ws://localhost:7860", Usage: "server base URL"},
			&cli.StringFlag{Name: "room", Required: true, Usage: "room code"},
		},
		Action: func(c *cli.Context) error {
			return play(c.String("server"), c.String("room"), os.Stdin, os.Stdout)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func roomURL(server, code string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + url.PathEscape(code)
	return u.String(), nil
}

// lockedWriter lets the event printer and the prompt share one output.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func play(server, code string, in io.Reader, w io.Writer) error {
	out := &lockedWriter{w: w}
	addr, err := roomURL(server, code)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	done := make(chan error, 1)
	go func() { done <- printEvents(conn, out) }()

	fmt.Fprintln(out, "Enter a cell number to reveal it (empty line or EOF to quit)")
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Not a number, try again.")
			continue
		}
		if err := conn.WriteJSON(shared.Click{Type: shared.TypeClick, Num: n}); err != nil {
			return err
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return <-done
}

func printEvents(conn *websocket.Conn, out io.Writer) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				if ce.Code == websocket.ClosePolicyViolation {
					return fmt.Errorf("room refused: %s", ce.Text)
				}
				return nil
			}
			return err
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			continue
		}
		switch head.Type {
		case shared.TypeInit:
			var m shared.Init
			if json.Unmarshal(data, &m) == nil {
				fmt.Fprintf(out, "Room has %d cells, revealed %v, %d bombs found\n", m.Total, m.Clicked, m.Found)
			}
		case shared.TypeUpdate:
			var m shared.Update
			if json.Unmarshal(data, &m) != nil {
				continue
			}
			if m.IsBomb {
				fmt.Fprintf(out, "Cell %d: BOMB (%d found)\n", m.Num, m.Punish)
			} else {
				fmt.Fprintf(out, "Cell %d: safe\n", m.Num)
			}
		}
	}
}
