package bot

import (
	"strconv"

	"github.com/m3rciful/wishbot/core/telegram/callbacks"
	"github.com/m3rciful/wishbot/core/telegram/keyboard"
	"github.com/m3rciful/wishbot/internal/models"

	tele "gopkg.in/telebot.v4"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnMyWishlist, BtnAddWish},
		[]string{BtnShare, BtnSettings},
	)
}

func cancelMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnCancel})
}

func skipMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnSkip}, []string{BtnCancel})
}

func wishActions(wishID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(wishID, 10)
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnEdit, Unique: cbWishEdit, Data: id},
		{Text: btnDelete, Unique: cbWishDelete, Data: id},
	})
}

func confirmDelete(wishID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(wishID, 10)
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnConfirmDelete, Unique: cbWishDeleteConfirm, Data: id},
		{Text: BtnCancel, Unique: cbWishDeleteCancel, Data: id},
	})
}

func editMenu(wishID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(wishID, 10)
	field := func(text string, f models.Field) keyboard.InlineBtn {
		return keyboard.InlineBtn{Text: text, Unique: cbWishEditField, Data: callbacks.Join(string(f), id)}
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{field(btnFieldTitle, models.FieldTitle), field(btnFieldDesc, models.FieldDescription)},
		[]keyboard.InlineBtn{field(btnFieldURL, models.FieldURL), field(btnFieldPrice, models.FieldPrice)},
		[]keyboard.InlineBtn{field(btnFieldPhoto, models.FieldImage)},
		[]keyboard.InlineBtn{{Text: BtnCancel, Unique: cbWishEditCancel, Data: id}},
	)
}

func settingsMenu(public bool) *tele.ReplyMarkup {
	btn := keyboard.InlineBtn{Text: btnMakePrivate, Unique: cbSettingsVisible, Data: "private"}
	if !public {
		btn = keyboard.InlineBtn{Text: btnMakePublic, Unique: cbSettingsVisible, Data: "public"}
	}
	return keyboard.InlineButtons([]keyboard.InlineBtn{btn})
}
