package bot

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/internal/session"
	"tutorbot/lib/clock"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const studentPageSize = 10

func (t *TgBot) adminCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.isAdmin(chatId) {
		t.plainResponse(chatId, "❌ You are not authorized to use this command.")
		return nil
	}
	t.showAdminPanel(chatId)
	return nil
}

func (t *TgBot) showAdminPanel(chatId int64) {
	text := "🛠️ *ADMIN PANEL*\n\nManage students, payments and bot configuration:"
	t.sendWithReplyKeyboard(chatId, text, t.adminKeyboard())
}

// showStudentManagement renders the dashboard with aggregate numbers and
// the management actions.
func (t *TgBot) showStudentManagement(chatId int64) {
	stats, err := t.core.StudentStats()
	if err != nil {
		t.reportError(chatId, "student management", err)
		return
	}
	pending, err := t.core.PendingPayments()
	if err != nil {
		t.reportError(chatId, "student management", err)
		return
	}

	text := fmt.Sprintf(
		"👥 *STUDENT MANAGEMENT DASHBOARD*\n\n"+
			"📊 *Quick Statistics:*\n"+
			"• Total Students: %d\n"+
			"• Paid & Verified: %d\n"+
			"• Unpaid/Pending: %d\n"+
			"• Pending Approvals: %d\n\n"+
			"🎯 *Manage Students:*",
		stats.Total, stats.Verified, stats.Total-stats.Verified, len(pending))

	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "📋 View All", CallbackData: cbStudents + "list:0:all"},
				{Text: "✅ Paid", CallbackData: cbStudents + "list:0:paid"},
				{Text: "❌ Unpaid", CallbackData: cbStudents + "list:0:unpaid"},
			},
			{
				{Text: "🌳 Referral Tree", CallbackData: cbStudents + "tree"},
				{Text: "📅 Date Filter", CallbackData: cbStudents + "filter"},
			},
			{
				{Text: "📤 Export CSV", CallbackData: cbStudents + "exp:all"},
				{Text: "🗑️ Delete Students", CallbackData: cbStudents + "del"},
			},
		},
	}
	t.sendWithKeyboard(chatId, text, keyboard)
}

// onStudentsCallback routes the stu: admin callbacks.
func (t *TgBot) onStudentsCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatId := callbackChat(cq)
	if !t.isAdmin(cq.From.Id) {
		t.answerCallback(cq, "Not authorized")
		return nil
	}
	t.answerCallback(cq, "")

	payload := cq.Data[len(cbStudents):]
	parts := strings.Split(payload, ":")
	switch parts[0] {
	case "list":
		offset := 0
		filter := "all"
		if len(parts) == 3 {
			offset, _ = strconv.Atoi(parts[1])
			filter = parts[2]
		}
		t.showStudentList(chatId, offset, filter)
	case "tree":
		t.showReferralTree(chatId)
	case "filter":
		if t.setSession(chatId, &session.State{Action: session.ActionDateFilter}) {
			t.plainResponse(chatId,
				"📅 *SET DATE FILTER*\n\n"+
					"Filter students by registration date.\n\n"+
					"*Format:* YYYY-MM-DD\n*Example:* 2024-01-15\n\n"+
					"Please enter start date (FROM):")
		}
	case "exp":
		filter := "all"
		if len(parts) > 1 {
			filter = parts[1]
		}
		t.exportStudents(chatId, filter, time.Time{}, time.Time{})
	case "expr":
		if len(parts) == 3 {
			from, to, err := clock.DayRange(parts[1], parts[2])
			if err == nil {
				t.exportStudents(chatId, "all", from, to)
			}
		}
	case "del":
		t.promptBulkDelete(chatId, nil)
	case "delr":
		if len(parts) == 3 {
			t.promptBulkDelete(chatId, map[string]string{"from": parts[1], "to": parts[2]})
		}
	case "back":
		t.showStudentManagement(chatId)
	}
	return nil
}

func (t *TgBot) loadStudents(filter string, from, to time.Time) ([]*entity.User, error) {
	var students []*entity.User
	var err error
	if !from.IsZero() {
		students, err = t.core.StudentsByDateRange(from, to)
	} else {
		students, err = t.core.AllStudents()
	}
	if err != nil {
		return nil, err
	}
	if filter == "all" || filter == "" {
		return students, nil
	}
	filtered := students[:0]
	for _, student := range students {
		if (filter == "paid") == student.IsVerified {
			filtered = append(filtered, student)
		}
	}
	return filtered, nil
}

func (t *TgBot) showStudentList(chatId int64, offset int, filter string) {
	students, err := t.loadStudents(filter, time.Time{}, time.Time{})
	if err != nil {
		t.reportError(chatId, "student list", err)
		return
	}
	if len(students) == 0 {
		t.plainResponse(chatId, "❌ No students found.")
		return
	}
	// Newest first.
	sort.Slice(students, func(i, j int) bool {
		return students[i].JoinedAt.After(students[j].JoinedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(students) {
		offset = (len(students) - 1) / studentPageSize * studentPageSize
	}
	end := offset + studentPageSize
	if end > len(students) {
		end = len(students)
	}

	title := "👥 *ALL STUDENTS*"
	if filter == "paid" {
		title = "✅ *PAID STUDENTS*"
	} else if filter == "unpaid" {
		title = "❌ *UNPAID STUDENTS*"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\nShowing %d-%d of %d students\n\n", title, offset+1, end, len(students)))
	for i, student := range students[offset:end] {
		paid := "❌ Unpaid"
		if student.IsVerified {
			paid = "✅ Paid"
		}
		refBy := "None"
		if student.ReferrerId != "" {
			refBy = "User " + student.ReferrerId
		}
		b.WriteString(fmt.Sprintf(
			"*%d. %s*\n📞 %s\n📅 %s\n💰 %s\n👥 Ref By: %s\n🆔 %d\n\n",
			offset+i+1, student.DisplayName(), orDash(student.Phone),
			student.JoinedAt.Format("2006-01-02"), paid, refBy, student.TelegramId))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if offset > 0 {
		nav = append(nav, tgbotapi.InlineKeyboardButton{
			Text:         "⬅️ Previous",
			CallbackData: fmt.Sprintf("%slist:%d:%s", cbStudents, offset-studentPageSize, filter),
		})
	}
	if end < len(students) {
		nav = append(nav, tgbotapi.InlineKeyboardButton{
			Text:         "Next ➡️",
			CallbackData: fmt.Sprintf("%slist:%d:%s", cbStudents, end, filter),
		})
	}
	keyboard := tgbotapi.InlineKeyboardMarkup{}
	if len(nav) > 0 {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, nav)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		[]tgbotapi.InlineKeyboardButton{
			{Text: "📤 Export This List", CallbackData: cbStudents + "exp:" + filter},
			{Text: "🔙 Back", CallbackData: cbStudents + "back"},
		})

	t.sendWithKeyboard(chatId, b.String(), keyboard)
}

func (t *TgBot) showReferralTree(chatId int64) {
	top, err := t.core.Leaderboard(10)
	if err != nil {
		t.reportError(chatId, "referral tree", err)
		return
	}
	if len(top) == 0 {
		t.plainResponse(chatId, "🌳 *REFERRAL TREE*\n\nNo referrals yet.")
		return
	}

	var b strings.Builder
	b.WriteString("🌳 *REFERRAL TREE - TOP 10 REFERRERS*\n\n")
	for i, referrer := range top {
		b.WriteString(fmt.Sprintf("*%d. %s* (%d referrals, %d ETB)\n",
			i+1, referrer.DisplayName(), referrer.ReferralCount, referrer.TotalRewards))
		referrals, err := t.core.Referrals(referrer.TelegramId)
		if err != nil {
			t.log.Warn("loading referral branch", sl.Chat(referrer.TelegramId), sl.Err(err))
			continue
		}
		for _, referral := range referrals {
			mark := "⏳"
			if referral.IsVerified {
				mark = "✅"
			}
			b.WriteString(fmt.Sprintf("   └ %s %s\n", mark, referral.DisplayName()))
		}
		b.WriteString("\n")
	}

	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "🔙 Back", CallbackData: cbStudents + "back"},
		}},
	}
	parts := splitMessage(b.String(), 4000)
	for i, part := range parts {
		if i == len(parts)-1 {
			t.sendWithKeyboard(chatId, part, keyboard)
		} else {
			t.plainResponse(chatId, part)
		}
	}
}

func (t *TgBot) showStudentStats(chatId int64) {
	stats, err := t.core.StudentStats()
	if err != nil {
		t.reportError(chatId, "student stats", err)
		return
	}

	text := fmt.Sprintf(
		"📊 *STUDENT STATISTICS*\n\n"+
			"👥 Total Students: %d\n"+
			"✅ Verified: %d\n"+
			"⏳ Pending Approval: %d\n"+
			"📝 In Registration: %d\n"+
			"🚫 Blocked: %d\n\n"+
			"🎓 Natural Science: %d\n"+
			"🎓 Social Science: %d\n\n"+
			"🎁 Total Referrals: %d\n"+
			"💰 Outstanding Rewards: %d ETB",
		stats.Total, stats.Verified, stats.PendingApproval, stats.InRegistration,
		stats.Blocked, stats.NaturalScience, stats.SocialScience,
		stats.TotalReferrals, stats.OutstandingETB)
	t.plainResponse(chatId, text)
}

// exportStudents renders the student list as CSV and sends it as a file.
func (t *TgBot) exportStudents(chatId int64, filter string, from, to time.Time) {
	students, err := t.loadStudents(filter, from, to)
	if err != nil {
		t.reportError(chatId, "export", err)
		return
	}
	if len(students) == 0 {
		t.plainResponse(chatId, "❌ No students found to export.")
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Name", "Phone", "Registration Date", "Payment Status",
		"Verification Status", "Referred By", "Referrals", "Rewards", "Telegram ID"})
	for _, student := range students {
		paid, verified := "Unpaid", "Pending"
		if student.IsVerified {
			paid, verified = "Paid", "Verified"
		}
		refBy := "None"
		if student.ReferrerId != "" {
			refBy = student.ReferrerId
		}
		_ = w.Write([]string{
			student.DisplayName(),
			student.Phone,
			student.JoinedAt.Format("2006-01-02"),
			paid,
			verified,
			refBy,
			strconv.FormatInt(student.ReferralCount, 10),
			strconv.FormatInt(student.Rewards, 10),
			strconv.FormatInt(student.TelegramId, 10),
		})
	}
	w.Flush()

	filename := fmt.Sprintf("students_%s_%s.csv", filter, time.Now().Format("2006-01-02"))
	_, err = t.api.SendDocument(chatId, tgbotapi.InputFileByReader(filename, &buf), &tgbotapi.SendDocumentOpts{
		Caption: fmt.Sprintf("📤 Exported %d student records.", len(students)),
	})
	if err != nil {
		t.reportError(chatId, "export", err)
	}
}

// handleDateFilter consumes the two dates of the filter flow.
func (t *TgBot) handleDateFilter(chatId int64, text string) {
	if !clock.IsDay(text) {
		t.plainResponse(chatId,
			"❌ Invalid date format. Please use YYYY-MM-DD.\n\n*Example:* 2024-01-15\n\nPlease try again:")
		return
	}

	sctx, cancel := sessionCtx()
	defer cancel()
	state, err := t.sessions.Get(sctx, chatId)
	if err != nil || state.Action != session.ActionDateFilter {
		return
	}

	if state.Data["from"] == "" {
		t.setSession(chatId, &session.State{
			Action: session.ActionDateFilter,
			Data:   map[string]string{"from": text},
		})
		t.plainResponse(chatId, fmt.Sprintf("✅ From date set: %s\n\nNow enter end date (TO):", text))
		return
	}

	fromDay := state.Data["from"]
	t.clearSession(chatId)

	from, to, err := clock.DayRange(fromDay, text)
	if err != nil {
		t.plainResponse(chatId, "❌ "+err.Error())
		return
	}

	students, err := t.core.StudentsByDateRange(from, to)
	if err != nil {
		t.reportError(chatId, "date filter", err)
		return
	}

	rangeText := fmt.Sprintf("%s to %s", fromDay, text)
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "📤 Export Range", CallbackData: fmt.Sprintf("%sexpr:%s:%s", cbStudents, fromDay, text)},
				{Text: "🗑️ Delete Range", CallbackData: fmt.Sprintf("%sdelr:%s:%s", cbStudents, fromDay, text)},
			},
			{{Text: "🔙 Back", CallbackData: cbStudents + "back"}},
		},
	}
	t.sendWithKeyboard(chatId, fmt.Sprintf(
		"✅ *Date filter applied*\n\n*Range:* %s\n*Students found:* %d",
		rangeText, len(students)), keyboard)
}

// promptBulkDelete arms the delete confirmation. A nil dateRange targets
// the whole student base.
func (t *TgBot) promptBulkDelete(chatId int64, dateRange map[string]string) {
	scope := "All students"
	if dateRange != nil {
		scope = fmt.Sprintf("Students registered %s to %s", dateRange["from"], dateRange["to"])
	}
	if !t.setSession(chatId, &session.State{Action: session.ActionBulkDelete, Data: dateRange}) {
		return
	}
	t.plainResponse(chatId, fmt.Sprintf(
		"🗑️ *DELETE STUDENTS*\n\n"+
			"*Warning:* This action cannot be undone!\n\n"+
			"Scope: %s\n\n"+
			"Type *CONFIRM DELETE* to proceed:", scope))
}

func (t *TgBot) handleBulkDelete(chatId int64, text string) {
	if text != "CONFIRM DELETE" {
		t.clearSession(chatId)
		t.plainResponse(chatId, "✅ Delete operation cancelled.")
		return
	}

	sctx, cancel := sessionCtx()
	defer cancel()
	state, err := t.sessions.Get(sctx, chatId)
	if err != nil || state.Action != session.ActionBulkDelete {
		return
	}
	t.clearSession(chatId)

	var students []*entity.User
	if state.Data["from"] != "" {
		from, to, rerr := clock.DayRange(state.Data["from"], state.Data["to"])
		if rerr != nil {
			t.plainResponse(chatId, "❌ "+rerr.Error())
			return
		}
		students, err = t.core.StudentsByDateRange(from, to)
	} else {
		students, err = t.core.AllStudents()
	}
	if err != nil {
		t.reportError(chatId, "bulk delete", err)
		return
	}
	if len(students) == 0 {
		t.plainResponse(chatId, "❌ No students found to delete.")
		return
	}

	deleted := 0
	for _, student := range students {
		if err = t.core.DeleteStudent(student.TelegramId); err != nil {
			t.log.Error("deleting student", sl.Chat(student.TelegramId), sl.Err(err))
			continue
		}
		deleted++
	}
	t.log.Warn("bulk delete performed", sl.Chat(chatId), slog.Int("removed", deleted))
	t.plainResponse(chatId, fmt.Sprintf("✅ Successfully deleted %d students!", deleted))
	t.showStudentManagement(chatId)
}

// showPendingReviews lists payment and withdrawal requests waiting for a
// decision, each with its review buttons.
func (t *TgBot) showPendingReviews(chatId int64) {
	payments, err := t.core.PendingPayments()
	if err != nil {
		t.reportError(chatId, "pending reviews", err)
		return
	}
	withdrawals, err := t.core.PendingWithdrawals()
	if err != nil {
		t.reportError(chatId, "pending reviews", err)
		return
	}
	if len(payments) == 0 && len(withdrawals) == 0 {
		t.plainResponse(chatId, "✅ Nothing pending review.")
		return
	}

	for _, req := range payments {
		user, uerr := t.core.User(req.UserId)
		if uerr != nil {
			t.log.Warn("loading payment requester", sl.Chat(req.UserId), sl.Err(uerr))
			continue
		}
		t.notifyOnePayment(chatId, user, req)
	}
	for _, req := range withdrawals {
		text := fmt.Sprintf(
			"💸 *WITHDRAWAL PENDING*\n\n🆔 User: %d\n💰 Amount: %d ETB\n💳 %s %s (%s)",
			req.UserId, req.Amount, req.PaymentMethod.Label(), req.AccountNumber, req.AccountName)
		keyboard := tgbotapi.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
				{Text: "✅ Approve", CallbackData: cbWithdrawal + "a:" + req.Id},
				{Text: "❌ Reject", CallbackData: cbWithdrawal + "r:" + req.Id},
			}},
		}
		t.sendWithKeyboard(chatId, text, keyboard)
	}
}

func (t *TgBot) notifyOnePayment(chatId int64, user *entity.User, req *entity.PaymentRequest) {
	caption := fmt.Sprintf(
		"💰 *PAYMENT PENDING*\n\n👤 %s\n🆔 %d\n💳 %s\n💵 %d ETB",
		user.DisplayName(), user.TelegramId, req.PaymentMethod.Label(), req.Amount)
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "✅ Approve Payment", CallbackData: cbPayment + "a:" + req.Id},
			{Text: "❌ Reject Payment", CallbackData: cbPayment + "r:" + req.Id},
		}},
	}
	_, err := t.api.SendPhoto(chatId, tgbotapi.InputFileByID(req.FileRef), &tgbotapi.SendPhotoOpts{
		Caption:     caption,
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		t.sendWithKeyboard(chatId, caption, keyboard)
	}
}

// onPaymentReviewCallback resolves a payment request from the inline
// buttons on the admin notification.
func (t *TgBot) onPaymentReviewCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	if !t.isAdmin(cq.From.Id) {
		t.answerCallback(cq, "Not authorized")
		return nil
	}

	payload := cq.Data[len(cbPayment):]
	verb, requestId, ok := strings.Cut(payload, ":")
	if !ok {
		t.answerCallback(cq, "")
		return nil
	}
	reviewer := "admin:" + strconv.FormatInt(cq.From.Id, 10)

	var req *entity.PaymentRequest
	var user *entity.User
	var err error
	if verb == "a" {
		req, user, err = t.core.ApprovePayment(requestId, reviewer)
	} else {
		req, user, err = t.core.RejectPayment(requestId, reviewer)
	}
	switch {
	case errors.Is(err, core.ErrAlreadyResolved):
		t.answerCallback(cq, fmt.Sprintf("Already %s", req.Status))
		return nil
	case errors.Is(err, entity.ErrNotFound):
		t.answerCallback(cq, "Request not found")
		return nil
	case err != nil:
		t.answerCallback(cq, "Failed")
		t.reportError(callbackChat(cq), "payment review", err)
		return nil
	}

	if verb == "a" {
		t.answerCallback(cq, "Payment approved")
		t.plainResponse(user.TelegramId,
			"🎉 *PAYMENT APPROVED!*\n\n"+
				"✅ Your registration is now verified.\n"+
				"📚 Welcome to the tutorial program!")
	} else {
		t.answerCallback(cq, "Payment rejected")
		t.plainResponse(user.TelegramId,
			"❌ *PAYMENT REJECTED*\n\n"+
				"Your payment proof could not be verified.\n"+
				"Please upload a valid screenshot to try again.")
	}
	t.editReviewedCaption(cq, fmt.Sprintf("%s by %s", strings.ToUpper(string(req.Status)), reviewer))
	return nil
}

// onWithdrawalReviewCallback resolves a withdrawal request.
func (t *TgBot) onWithdrawalReviewCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	if !t.isAdmin(cq.From.Id) {
		t.answerCallback(cq, "Not authorized")
		return nil
	}

	payload := cq.Data[len(cbWithdrawal):]
	verb, requestId, ok := strings.Cut(payload, ":")
	if !ok {
		t.answerCallback(cq, "")
		return nil
	}
	reviewer := "admin:" + strconv.FormatInt(cq.From.Id, 10)

	var req *entity.WithdrawalRequest
	var err error
	if verb == "a" {
		req, err = t.core.ApproveWithdrawal(requestId, reviewer)
	} else {
		req, err = t.core.RejectWithdrawal(requestId, reviewer)
	}
	switch {
	case errors.Is(err, core.ErrAlreadyResolved):
		t.answerCallback(cq, fmt.Sprintf("Already %s", req.Status))
		return nil
	case errors.Is(err, entity.ErrNotFound):
		t.answerCallback(cq, "Request not found")
		return nil
	case err != nil:
		t.answerCallback(cq, "Failed")
		t.reportError(callbackChat(cq), "withdrawal review", err)
		return nil
	}

	if verb == "a" {
		t.answerCallback(cq, "Withdrawal approved")
		t.plainResponse(req.UserId, fmt.Sprintf(
			"✅ *WITHDRAWAL APPROVED*\n\n"+
				"💰 %d ETB is on its way to %s %s.",
			req.Amount, req.PaymentMethod.Label(), req.AccountNumber))
	} else {
		t.answerCallback(cq, "Withdrawal rejected")
		t.plainResponse(req.UserId,
			"❌ *WITHDRAWAL REJECTED*\n\n"+
				"Your withdrawal request was declined. Your balance is unchanged.\n"+
				"Contact support for details.")
	}
	t.editReviewedCaption(cq, fmt.Sprintf("%s by %s", strings.ToUpper(string(req.Status)), reviewer))
	return nil
}

// editReviewedCaption strips the buttons off a resolved review message so
// stale approve buttons cannot be tapped again.
func (t *TgBot) editReviewedCaption(cq *tgbotapi.CallbackQuery, decision string) {
	msg, ok := cq.Message.(tgbotapi.Message)
	if !ok {
		return
	}
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	_, _, err := t.api.EditMessageReplyMarkup(&tgbotapi.EditMessageReplyMarkupOpts{
		ChatId:      msg.Chat.Id,
		MessageId:   msg.MessageId,
		ReplyMarkup: empty,
	})
	if err != nil {
		t.log.Debug("clearing review buttons", sl.Err(err))
	}
	t.plainResponse(msg.Chat.Id, "☑️ "+decision)
}

// promptBroadcast arms the broadcast flow: the next text message from the
// admin is sent to every student.
func (t *TgBot) promptBroadcast(chatId int64) {
	if !t.setSession(chatId, &session.State{Action: session.ActionBroadcast}) {
		return
	}
	t.plainResponse(chatId,
		"📢 *BROADCAST MESSAGE*\n\n"+
			"Type the message to send to all students.\n"+
			"Use the Homepage button to cancel.")
}

func (t *TgBot) handleBroadcast(chatId int64, text string) {
	t.clearSession(chatId)

	students, err := t.core.AllStudents()
	if err != nil {
		t.reportError(chatId, "broadcast", err)
		return
	}

	sent := 0
	for _, student := range students {
		if student.Blocked || student.TelegramId == chatId {
			continue
		}
		t.plainResponse(student.TelegramId, text)
		sent++
	}
	t.log.Info("broadcast sent", sl.Chat(chatId), slog.Int("recipients", sent))
	t.plainResponse(chatId, fmt.Sprintf("✅ Broadcast sent to %d students.", sent))
}
