// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/api/utils"
	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	chain          *chain.Chain
	backtraceLimit uint32
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(c *chain.Chain, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		chain:          c,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddress(req *http.Request, name string) (*cosmic.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := cosmic.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func parseTopic(req *http.Request, name string) (*cosmic.Bytes32, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	topic, err := cosmic.ParseBytes32(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &topic, nil
}

// parsePosition returns the block after which the subscription starts. It defaults to the best block.
func (s *Subscriptions) parsePosition(req *http.Request) (*block.Header, error) {
	best := s.chain.BestHeader()
	posStr := req.URL.Query().Get("pos")
	if posStr == "" {
		return best, nil
	}
	pos, err := cosmic.ParseBytes32(posStr)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	header, err := s.chain.GetHeader(pos)
	if err != nil {
		if s.chain.IsNotFound(err) {
			return nil, utils.BadRequest(errors.New("pos: not found"))
		}
		return nil, err
	}
	if best.Number()-header.Number() > s.backtraceLimit {
		return nil, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return header, nil
}

func (s *Subscriptions) newEventReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	var filter EventFilter
	if filter.Address, err = parseAddress(req, "addr"); err != nil {
		return nil, err
	}
	topics := []**cosmic.Bytes32{&filter.Topic0, &filter.Topic1, &filter.Topic2, &filter.Topic3, &filter.Topic4}
	for i, t := range topics {
		if *t, err = parseTopic(req, "t"+string(rune('0'+i))); err != nil {
			return nil, err
		}
	}
	return newEventReader(s.chain, position, &filter), nil
}

func (s *Subscriptions) newTransferReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	var filter TransferFilter
	if filter.TxOrigin, err = parseAddress(req, "txOrigin"); err != nil {
		return nil, err
	}
	if filter.Sender, err = parseAddress(req, "sender"); err != nil {
		return nil, err
	}
	if filter.Recipient, err = parseAddress(req, "recipient"); err != nil {
		return nil, err
	}
	return newTransferReader(s.chain, position, &filter), nil
}

func (s *Subscriptions) newBlockReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	return newBlockReader(s.chain, position), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	subject := mux.Vars(req)["subject"]
	switch subject {
	case "block":
		reader, err = s.newBlockReader(req)
	case "event":
		reader, err = s.newEventReader(req)
	case "transfer":
		reader, err = s.newTransferReader(req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	conn, closed, err := s.setupConn(w, req)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	metricActiveWebsockets().AddWithLabel(1, map[string]string{"subject": subject})
	defer metricActiveWebsockets().AddWithLabel(-1, map[string]string{"subject": subject})

	err = s.pipe(conn, reader, closed)
	s.closeConn(conn, err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				close(closed)
				break
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}

	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := s.chain.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	for {
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
			continue
		}
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close terminates every open subscription and waits for them.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
