package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ptchy/chiabot/internal/command"
	"github.com/ptchy/chiabot/internal/config"
	"github.com/ptchy/chiabot/internal/currency"
	"github.com/ptchy/chiabot/internal/ledger"
	"github.com/ptchy/chiabot/internal/store"
)

// Sink delivers rendered text to a chat. The dispatcher produces the
// text; transport is someone else's problem.
type Sink interface {
	Send(chatID int64, text string) error
}

// Dispatcher maps parsed commands onto ledger sessions. Every command
// is one load-mutate-store cycle under a per-key lock, so concurrent
// commands against the same ledger never lose updates.
type Dispatcher struct {
	store store.Store
	sink  Sink
	cfg   *config.Config

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewDispatcher(st store.Store, sink Sink, cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		store: st,
		sink:  sink,
		cfg:   cfg,
		locks: make(map[int64]*sync.Mutex),
	}
}

// SetSink installs the delivery collaborator. The Telegram sink needs
// the bot client, which needs the dispatcher, so wiring happens in two
// steps at startup before any update flows.
func (d *Dispatcher) SetSink(sink Sink) {
	d.sink = sink
}

// sessionKey derives the storage key for a chat. A configured shared
// ledger overrides the per-chat key so a private chat and the group
// write the same bill.
func (d *Dispatcher) sessionKey(chatID int64) int64 {
	if d.cfg.SharedLedger() {
		return d.cfg.GroupChatID
	}
	return chatID
}

func (d *Dispatcher) keyLock(key int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[key]
	if !ok {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	return l
}

// HandleMessage processes one inbound chat message. User mistakes are
// answered in-chat; only infrastructure failures (store, delivery to
// the originating chat) surface as errors.
func (d *Dispatcher) HandleMessage(ctx context.Context, chatID int64, text string) error {
	key := d.sessionKey(chatID)
	l := d.keyLock(key)
	l.Lock()
	defer l.Unlock()

	session, err := d.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load session %d: %w", key, err)
	}
	if session == nil {
		session = ledger.NewSession(d.cfg.DefaultMembers)
	}

	intent, err := command.Parse(text, session.Members)
	if err != nil {
		return d.reply(chatID, parseErrorText(err))
	}

	switch in := intent.(type) {
	case nil:
		return nil
	case command.Ping:
		return d.reply(chatID, "pong ✔️")
	case command.Help:
		return d.reply(chatID, d.usage())
	case command.GetIdentifier:
		return d.reply(chatID, fmt.Sprintf("Chat ID: %d", chatID))
	case command.ShowMembers:
		return d.reply(chatID, "Thành viên hiện tại: "+strings.Join(session.Members, ", "))
	case command.SetMembers:
		return d.handleSetMembers(ctx, chatID, key, session, in)
	case command.AddExpense:
		return d.handleAddExpense(ctx, chatID, key, session, in)
	case command.Compute:
		return d.handleCompute(ctx, chatID, key, session)
	case command.Announce:
		return d.handleAnnounce(chatID, session)
	case command.ClearLedger:
		session.Clear()
		if err := d.store.Put(ctx, key, session); err != nil {
			return fmt.Errorf("failed to store session %d: %w", key, err)
		}
		return d.reply(chatID, "Đã xoá dữ liệu.")
	}
	return nil
}

func (d *Dispatcher) handleSetMembers(ctx context.Context, chatID, key int64, session *ledger.Session, in command.SetMembers) error {
	if err := session.SetMembers(in.Names, d.cfg.GroupSize); err != nil {
		switch {
		case errors.Is(err, ledger.ErrRosterSize):
			return d.reply(chatID, fmt.Sprintf("Vui lòng nhập đúng %d tên, ví dụ: /names An,Bình,Chi,Dũng", d.cfg.GroupSize))
		case errors.Is(err, ledger.ErrDuplicateMember):
			return d.reply(chatID, "Tên bị trùng trong danh sách, vui lòng nhập các tên khác nhau.")
		}
		return err
	}
	if err := d.store.Put(ctx, key, session); err != nil {
		return fmt.Errorf("failed to store session %d: %w", key, err)
	}
	return d.reply(chatID, "Đã cập nhật tên: "+strings.Join(session.Members, ", "))
}

func (d *Dispatcher) handleAddExpense(ctx context.Context, chatID, key int64, session *ledger.Session, in command.AddExpense) error {
	e := ledger.Expense{Payer: in.Payer, Amount: in.Amount, Participants: in.Participants, Note: in.Note}
	if err := session.AddExpense(e); err != nil {
		var unknown *ledger.UnknownMemberError
		switch {
		case errors.As(err, &unknown):
			return d.reply(chatID, fmt.Sprintf("Tên không tồn tại trong nhóm: %s. Dùng /names để xem/cập nhật.", unknown.Name))
		case errors.Is(err, ledger.ErrInvalidAmount):
			return d.reply(chatID, "Số tiền không hợp lệ. Ví dụ: 125000")
		}
		return err
	}
	if err := d.store.Put(ctx, key, session); err != nil {
		return fmt.Errorf("failed to store session %d: %w", key, err)
	}
	recorded := session.Items[len(session.Items)-1]
	msg := fmt.Sprintf("Đã ghi: %s trả %s cho [%s]",
		recorded.Payer, currency.Format(recorded.Amount), strings.Join(recorded.Participants, ", "))
	if recorded.Note != "" {
		msg += fmt.Sprintf(" (%s)", recorded.Note)
	}
	return d.reply(chatID, msg)
}

func (d *Dispatcher) handleCompute(ctx context.Context, chatID, key int64, session *ledger.Session) error {
	transfers, err := ledger.Settle(session.Members, session.Items)
	if err != nil {
		// Session validation should make this unreachable; treat it as
		// a bug, not user input.
		log.Printf("settlement failed for session %d: %v", key, err)
		return d.reply(chatID, "Đã xảy ra lỗi nội bộ khi tính toán.")
	}
	output := ledger.RenderTransfers(transfers)
	session.RecordResult(output)
	if err := d.store.Put(ctx, key, session); err != nil {
		return fmt.Errorf("failed to store session %d: %w", key, err)
	}
	if err := d.reply(chatID, output); err != nil {
		return err
	}

	// Auto-broadcast to the configured group. Failing to reach the
	// group must not fail the computation; the origin chat gets a
	// notice instead.
	if !d.cfg.SharedLedger() || len(transfers) == 0 {
		return nil
	}
	target := d.cfg.GroupChatID
	if err := d.sink.Send(target, "Kết quả chia bill:\n\n"+output); err != nil {
		log.Printf("broadcast to %d failed: %v", target, err)
		return d.reply(chatID, fmt.Sprintf(
			"Không gửi được vào GROUP_CHAT_ID=%d. Lỗi: %v.\nKiểm tra: 1) Bot đã được add vào group, 2) ID đúng (thử thêm tiền tố -100 nếu là supergroup), 3) Bot chưa bị chặn.",
			target, err))
	}
	if target != chatID {
		return d.reply(chatID, fmt.Sprintf("Đã gửi kết quả vào group (%d).", target))
	}
	return nil
}

func (d *Dispatcher) handleAnnounce(chatID int64, session *ledger.Session) error {
	if session.LastResult == "" {
		return d.reply(chatID, "Chưa có kết quả. Hãy dùng /chia trước.")
	}
	target := chatID
	if d.cfg.SharedLedger() {
		target = d.cfg.GroupChatID
	} else {
		if err := d.reply(chatID, "GROUP_CHAT_ID chưa được cấu hình, gửi vào chat hiện tại."); err != nil {
			return err
		}
	}
	if err := d.sink.Send(target, "Kết quả chia bill:\n\n"+session.LastResult); err != nil {
		if target == chatID {
			return err
		}
		log.Printf("announce to %d failed: %v", target, err)
		return d.reply(chatID, fmt.Sprintf("Không gửi được vào GROUP_CHAT_ID=%d. Lỗi: %v.", target, err))
	}
	if target != chatID {
		return d.reply(chatID, "Đã gửi thông báo lên group.")
	}
	return nil
}

func (d *Dispatcher) reply(chatID int64, text string) error {
	if err := d.sink.Send(chatID, text); err != nil {
		return fmt.Errorf("failed to send to chat %d: %w", chatID, err)
	}
	return nil
}

func (d *Dispatcher) usage() string {
	return strings.Join([]string{
		fmt.Sprintf("Chào! Bot chia bill (%d người, hỗ trợ mỗi khoản có nhóm tham gia):", d.cfg.GroupSize),
		"/start - hướng dẫn",
		fmt.Sprintf("/names A,B,C,D - đặt tên %d người (dùng dấu phẩy)", d.cfg.GroupSize),
		"/names - xem danh sách tên hiện tại",
		"/add <NgườiTrả> <SốTiền> [A,B,...|all] [ghi chú] - cú pháp nhanh",
		"/add <NgườiTrả> - <SốTiền> - <A,B,...|all> - <ghi chú> - cú pháp rõ ràng",
		"/chia - hiển thị ai trả cho ai (đã gộp) và tự động gửi vào group nếu cấu hình",
		"/clear - xoá dữ liệu hiện tại",
		"/getchatid - lấy Chat ID hiện tại",
		"/send - gửi kết quả gần nhất lên group (nếu cấu hình)",
		"Chế độ sổ chung: nếu cấu hình GROUP_CHAT_ID, mọi lệnh ở DM cũng ghi vào sổ của group này.",
	}, "\n")
}

func parseErrorText(err error) string {
	var badParticipants *command.BadParticipantsError
	switch {
	case errors.Is(err, command.ErrBadAmount):
		return "Số tiền không hợp lệ. Ví dụ: 125000"
	case errors.Is(err, command.ErrAddUsage):
		return "Cú pháp: /spent <NgườiTrả> - <SốTiền> - <A,B,...> - <ghi chú>\nHoặc: /spent <NgườiTrả> <SốTiền> [A,B,...] [ghi chú]"
	case errors.As(err, &badParticipants):
		return "Danh sách người tham gia không hợp lệ. Tên hợp lệ: " + strings.Join(badParticipants.Members, ", ")
	}
	return "Lệnh không hợp lệ."
}
