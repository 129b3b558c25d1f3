package telegram

import (
	"context"
	"strings"
	"testing"

	"sentinel/pkg/logx"
)

func TestHandlerOwnerOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cfg    Config
		req    Request
		answer bool
	}{
		{"owner", Config{OwnerUserIDs: []int64{7}}, Request{FromID: 7, ChatID: 7}, true},
		{"stranger", Config{OwnerUserIDs: []int64{7}}, Request{FromID: 8, ChatID: 8}, false},
		{"stranger in configured chat", Config{OwnerUserIDs: []int64{7}, ChatID: -100}, Request{FromID: 8, ChatID: -100}, false},
		{"chat only", Config{ChatID: -100}, Request{FromID: 8, ChatID: -100}, true},
		{"chat only other chat", Config{ChatID: -100}, Request{FromID: 8, ChatID: -5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cmds, _ := newCommands(t)
			b := &Bot{cfg: tc.cfg, log: logx.Nop(), cmds: cmds}
			h := b.buildHandler()
			req := tc.req
			req.Command = "list"
			reply, err := h(context.Background(), &req)
			if err != nil {
				t.Fatalf("handler: %v", err)
			}
			if (reply != "") != tc.answer {
				t.Fatalf("reply = %q, answer want %v", reply, tc.answer)
			}
		})
	}
}

func TestPanicRecover(t *testing.T) {
	t.Parallel()

	h := Chain(func(context.Context, *Request) (string, error) { panic("boom") }, MWPanicRecover(logx.Nop()))
	reply, err := h(context.Background(), &Request{})
	if err == nil || !strings.Contains(err.Error(), "boom") || reply != "" {
		t.Fatalf("reply=%q err=%v", reply, err)
	}
}

func TestSplitText(t *testing.T) {
	t.Parallel()

	if got := splitText("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short: %q", got)
	}

	s := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
	got := splitText(s, 10)
	if len(got) != 2 || got[0] != "aaaaaa" || got[1] != "bbbbbb" {
		t.Fatalf("newline split: %q", got)
	}

	long := strings.Repeat("x", 25)
	got = splitText(long, 10)
	if len(got) != 3 || len([]rune(got[2])) != 5 {
		t.Fatalf("hard split: %q", got)
	}
}

func TestNewRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Token: "  "}, nil, logx.Nop()); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
