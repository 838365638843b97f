// Package eventbridge 通过本机 WebSocket 广播编队引擎事件
//
// 网页层（对话框外观、统计等）连接 /events 订阅，每条消息是一个 JSON 编码的
// events.Envelope。帧循环通过 Publish 投递，每个客户端有独立的缓冲通道和
// 写协程，慢客户端只会丢消息，不会阻塞帧循环。
package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gonewx/clubhero/pkg/events"
	"github.com/gorilla/websocket"
)

const (
	// clientBuffer 每个客户端的待发送消息数上限
	clientBuffer = 64
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
)

// Server 事件广播服务
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]chan []byte
	closed  bool

	nextID  atomic.Uint64
	dropped atomic.Uint64

	httpServer *http.Server
	listener   net.Listener
}

// New 创建广播服务（尚未监听）
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			// 只接受本机连接，来源校验交给 isLoopbackRemote
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Start 在 addr 上监听，addr 的主机部分必须是本机回环地址
func (s *Server) Start(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid events address %q: %w", addr, err)
	}
	if !isLoopbackHost(host) {
		return fmt.Errorf("events address %q must be a loopback address", addr)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.Handler())

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[EventBridge] serve error: %v", err)
		}
	}()
	log.Printf("[EventBridge] listening on ws://%s/events", ln.Addr())
	return nil
}

// Addr 返回实际监听地址（未启动时为空）
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Clients 当前连接的客户端数量
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped 因客户端缓冲已满而丢弃的消息数
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// Publish 实现 events.Handler：向所有客户端广播事件
// 不阻塞；客户端缓冲已满时丢弃该客户端的本条消息
func (s *Server) Publish(seq uint64, e events.Event) {
	env, err := events.Wrap(seq, e)
	if err != nil {
		log.Printf("[EventBridge] %v", err)
		return
	}
	msg, err := json.Marshal(env)
	if err != nil {
		log.Printf("[EventBridge] failed to encode envelope: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range s.clients {
		select {
		case out <- msg:
		default:
			s.dropped.Add(1)
		}
	}
}

func (s *Server) addClient() (uint64, chan []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, nil, false
	}
	id := s.nextID.Add(1)
	out := make(chan []byte, clientBuffer)
	s.clients[id] = out
	return id, out, true
}

func (s *Server) removeClient(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, ok := s.clients[id]; ok {
		delete(s.clients, id)
		close(out)
	}
}

// Handler 返回 WebSocket 处理函数
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out, ok := s.addClient()
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
			return
		}
		log.Printf("[EventBridge] client %d connected from %s", id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// 写协程
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			s.writeLoop(ctx, conn, out)
		}()

		// 读循环只用于检测断开，客户端消息被忽略
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		s.removeClient(id)
		select {
		case <-writeDone:
		case <-time.After(500 * time.Millisecond):
		}
		log.Printf("[EventBridge] client %d disconnected", id)
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// Close 关闭所有客户端与监听（幂等）
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for id, out := range s.clients {
		delete(s.clients, id)
		close(out)
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	log.Printf("[EventBridge] closed")
	return err
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	return isLoopbackHost(host)
}

func isLoopbackHost(host string) bool {
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
