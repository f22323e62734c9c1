package bot

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/m3rciful/wishbot/core/telegram/format"
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/internal/conversation"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/service"
	"github.com/m3rciful/wishbot/internal/store"

	tele "gopkg.in/telebot.v4"
)

// Telegram caps photo captions at 1024 UTF-16 units. Lengths are measured on
// the HTML source, which is never shorter than the parsed caption.
const (
	captionLimit      = 1024
	captionTitleLimit = 200
	captionPriceLimit = 100
	captionURLLimit   = 300
)

// cardParts are the HTML-escaped values of a wish as placed in a message.
type cardParts struct {
	title, desc, price, url string
}

func (p cardParts) writeDetails(b *strings.Builder) {
	if p.desc != "" {
		fmt.Fprintf(b, "💭 %s\n", p.desc)
	}
	if p.price != "" {
		fmt.Fprintf(b, "💰 %s\n", p.price)
	}
	if p.url != "" {
		fmt.Fprintf(b, "🔗 %s\n", p.url)
	}
}

// renderCard formats a wish the way it appears in lists and shared views.
func renderCard(w models.Wish, loc *time.Location) string {
	return fitWish(w, func(b *strings.Builder, p cardParts) {
		fmt.Fprintf(b, "📦 <b>%s</b>\n", p.title)
		fmt.Fprintf(b, "🆔 ID: %d\n\n", w.ID)
		p.writeDetails(b)
		fmt.Fprintf(b, "\n📅 Added: %s", helpers.FormatTimestamp(w.CreatedAt, loc))
	})
}

// renderSummary is the short card shown after adding or editing a wish.
func renderSummary(header string, w models.Wish) string {
	text := fitWish(w, func(b *strings.Builder, p cardParts) {
		b.WriteString(header)
		b.WriteString("\n\n")
		fmt.Fprintf(b, "📦 <b>%s</b>\n", p.title)
		p.writeDetails(b)
	})
	return strings.TrimRight(text, "\n")
}

// fitWish renders w through layout. Photo wishes become captions: title, price
// and URL are clipped to fixed shares and the description gets what is left.
func fitWish(w models.Wish, layout func(*strings.Builder, cardParts)) string {
	render := func(p cardParts) string {
		var b strings.Builder
		layout(&b, p)
		return b.String()
	}
	desc := format.Deref(w.Description, "")
	price := format.Deref(w.Price, "")
	url := format.Deref(w.URL, "")
	if !hasPhoto(w) {
		return render(cardParts{
			title: format.Escape(w.Title),
			desc:  format.Escape(desc),
			price: format.Escape(price),
			url:   format.Escape(url),
		})
	}

	p := cardParts{
		title: fitEscaped(w.Title, captionTitleLimit),
		price: fitEscaped(price, captionPriceLimit),
		url:   fitEscaped(url, captionURLLimit),
	}
	if desc != "" {
		room := captionLimit - utf16Len(render(p)) - utf16Len("💭 \n")
		p.desc = fitEscaped(desc, room)
	}
	return render(p)
}

func hasPhoto(w models.Wish) bool {
	return w.ImageFileID != nil && *w.ImageFileID != ""
}

// fitEscaped escapes s, truncating it first so the result is at most limit UTF-16 units.
func fitEscaped(s string, limit int) string {
	for n := utf8.RuneCountInString(s); n > 0; {
		out := format.Escape(format.Truncate(s, n))
		over := utf16Len(out) - limit
		if over <= 0 {
			return out
		}
		// an escaped rune takes at most 5 units
		n -= max(1, over/5)
	}
	return ""
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func addPrompt(st conversation.State) (string, *tele.ReplyMarkup) {
	switch st {
	case conversation.AwaitingTitle:
		return textPromptTitle, cancelMenu()
	case conversation.AwaitingDescription:
		return textPromptDescription, skipMenu()
	case conversation.AwaitingURL:
		return textPromptURL, skipMenu()
	case conversation.AwaitingPrice:
		return textPromptPrice, skipMenu()
	}
	return textPromptImage, skipMenu()
}

// renderPrompt returns the text and keyboard asking for the value of st.
// w is the wish under edit and is nil in the add flow.
func renderPrompt(st conversation.State, w *models.Wish) (string, *tele.ReplyMarkup) {
	if n := st.StepNumber(); n > 0 {
		text, kb := addPrompt(st)
		return fmt.Sprintf(text, n, conversation.AddSteps), kb
	}
	var label string
	var field models.Field
	switch st {
	case conversation.EditChoice:
		return textChooseField, cancelMenu()
	case conversation.EditTitle:
		return fmt.Sprintf("✏️ <b>Edit Title</b>\nCurrent title: %s\n\nWrite a new title:", format.Code(wishTitle(w))), cancelMenu()
	case conversation.EditDescription:
		label, field = "💭 <b>Edit Description</b>\nCurrent description", models.FieldDescription
	case conversation.EditURL:
		label, field = "🔗 <b>Edit URL</b>\nCurrent URL", models.FieldURL
	case conversation.EditPrice:
		label, field = "💰 <b>Edit Price</b>\nCurrent price", models.FieldPrice
	case conversation.EditImage:
		return "📸 <b>Edit Photo</b>\nSend a new photo, or press <b>" + BtnSkip + "</b> to remove the current one:", skipMenu()
	default:
		return textFailed, mainMenu()
	}
	text := fmt.Sprintf("%s: %s\n\nWrite a new one, or press <b>%s</b> to clear it:",
		label, format.Code(optionalValue(w, field)), BtnSkip)
	return text, skipMenu()
}

func wishTitle(w *models.Wish) string {
	if w == nil {
		return ""
	}
	return w.Title
}

func optionalValue(w *models.Wish, f models.Field) string {
	if w == nil {
		return "none"
	}
	switch f {
	case models.FieldDescription:
		return format.Deref(w.Description, "none")
	case models.FieldURL:
		return format.Deref(w.URL, "none")
	case models.FieldPrice:
		return format.Deref(w.Price, "none")
	}
	return "none"
}

// renderError turns a service error into the message shown to the user.
func renderError(err error, maxWishes int) string {
	if verr, ok := service.AsValidation(err); ok {
		return "❌ " + format.Escape(verr.Message)
	}
	switch service.CodeOf(err) {
	case service.CodeQuota:
		return fmt.Sprintf(textQuota, maxWishes)
	case service.CodeNotFound:
		return textWishNotFound
	case service.CodeDeleteFailed:
		return textDeleteFailed
	}
	return textFailed
}

func renderShare(link string, count int, public bool) string {
	text := fmt.Sprintf(textShare, count, format.Escape(link))
	if !public {
		text += textSharePrivate
	}
	return text
}

func shareLink(botUsername, code string) string {
	return "https://t.me/" + botUsername + "?start=" + service.SharePrefix + code
}

func renderSettings(public bool) string {
	vis := textPublic
	if !public {
		vis = textPrivate
	}
	return fmt.Sprintf(textSettings, vis)
}

func renderStats(st store.Stats) string {
	return fmt.Sprintf(textStats, st.Users, st.PublicUsers, st.Wishes, st.UsersWithAny)
}
