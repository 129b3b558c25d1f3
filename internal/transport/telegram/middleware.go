package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"sentinel/pkg/logx"
)

// Request is one incoming command after parsing.
type Request struct {
	ChatID   int64
	ThreadID int
	FromID   int64
	Command  string
	Args     string
}

// HandlerFunc returns the reply text; an empty reply sends nothing.
type HandlerFunc func(ctx context.Context, req *Request) (string, error)

type Middleware func(next HandlerFunc) HandlerFunc

func Chain(h HandlerFunc, m ...Middleware) HandlerFunc {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// MWOwnerOnly drops requests from users not in owners. An empty owner set
// allows only ChatID, when set.
func MWOwnerOnly(owners []int64, chatID int64, log logx.Logger) Middleware {
	allowed := make(map[int64]struct{}, len(owners))
	for _, id := range owners {
		allowed[id] = struct{}{}
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (string, error) {
			_, ok := allowed[req.FromID]
			if !ok && len(allowed) == 0 && chatID != 0 && req.ChatID == chatID {
				ok = true
			}
			if !ok {
				log.Debug("command from non-owner ignored", logx.Int64("from_id", req.FromID), logx.String("cmd", req.Command))
				return "", nil
			}
			return next(ctx, req)
		}
	}
}

func MWTimeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (string, error) {
			if d <= 0 {
				return next(ctx, req)
			}
			cctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(cctx, req)
		}
	}
}

func MWPanicRecover(log logx.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (reply string, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered",
						logx.Any("panic", r),
						logx.String("stack", string(debug.Stack())),
					)
					reply, err = "", fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx, req)
		}
	}
}

func MWRequestLog(log logx.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (string, error) {
			start := time.Now()
			reply, err := next(ctx, req)
			fields := []logx.Field{
				logx.Int64("chat_id", req.ChatID),
				logx.Int64("from_id", req.FromID),
				logx.String("cmd", req.Command),
				logx.Duration("dur", time.Since(start)),
			}
			if err != nil {
				log.Warn("command failed", append(fields, logx.Err(err))...)
			} else {
				log.Debug("command ok", fields...)
			}
			return reply, err
		}
	}
}
