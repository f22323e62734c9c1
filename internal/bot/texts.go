package bot

// Reply keyboard labels.
const (
	BtnMyWishlist = "⭐️ My wishlist"
	BtnAddWish    = "➕ Add a wish"
	BtnShare      = "🔗 Share"
	BtnSettings   = "⚙️ Settings"
	BtnCancel     = "❌ Cancel"
	BtnSkip       = "⏭ Skip"
)

// Inline button labels.
const (
	btnEdit          = "✏️ Edit"
	btnDelete        = "🗑 Delete"
	btnConfirmDelete = "✅ Yes, delete"
	btnFieldTitle    = "✏️ Title"
	btnFieldDesc     = "💭 Description"
	btnFieldURL      = "🔗 URL"
	btnFieldPrice    = "💰 Price"
	btnFieldPhoto    = "📸 Photo"
	btnMakePrivate   = "🔒 Make private"
	btnMakePublic    = "🌍 Make public"
)

// Callback unique keys.
const (
	cbWishEdit          = "wish_edit"
	cbWishDelete        = "wish_delete"
	cbWishDeleteConfirm = "wish_delete_confirm"
	cbWishDeleteCancel  = "wish_delete_cancel"
	cbWishEditField     = "wish_edit_field"
	cbWishEditCancel    = "wish_edit_cancel"
	cbSettingsVisible   = "settings_visibility"
)

const (
	textWelcome = `👋 Hi, %s!

I'm your personal wishlist bot 🎁

✨ What I can do:
- Save your wishes with descriptions, photos, and prices
- Help you share your wishlist with friends and family
- Edit or delete existing wishes

Choose an action from the menu below 👇`

	textHelp = `📖 <b>Help Menu</b>

<b>Available commands:</b>
/start - Start the bot
/help - Show this help message
/mywishlist - View your wishlist
/add - Add a new wish
/share - Get a shareable link to your wishlist
/settings - Change who can see your wishlist
/cancel - Stop adding or editing a wish

<b>How to use:</b>
1️⃣ Tap "` + BtnAddWish + `"
2️⃣ Enter your wish details
3️⃣ View your list under "` + BtnMyWishlist + `"
4️⃣ Share your wishlist using "` + BtnShare + `"

Need help? Type /help`

	textPromptTitle = "➕ <b>Adding a new wish</b>\n\n" +
		"📝 Step %d of %d: <b>Title</b>\n" +
		"Write what you want (e.g., 'Hot Wheels car' or 'Harry Potter Book')"
	textPromptDescription = "💭 <b>Step %d of %d: Description</b>\n" +
		"Add a description or details about the wish.\n\n" +
		"Example: 'Color: blue, 128 GB' or 'Illustrated edition'\n\n" +
		"Or press <b>" + BtnSkip + "</b> if no description is needed"
	textPromptURL = "🔗 <b>Step %d of %d: URL</b>\n" +
		"Send a link to the product or website (e.g., https://example.com/...)\n\n" +
		"Or press <b>" + BtnSkip + "</b>"
	textPromptPrice = "💰 <b>Step %d of %d: Price</b>\n" +
		"Enter a price (for example: '3500 UAH', '$100', '50 EUR')\n\n" +
		"Or click <b>" + BtnSkip + "</b>"
	textPromptImage = "📸 <b>Step %d of %d: Photo</b>\n" +
		"Send a photo of your product or wish\n\n" +
		"Or click <b>" + BtnSkip + "</b>"
	textPhotoRequired  = "❌ Please send a photo or press <b>" + BtnSkip + "</b>"
	textChooseField    = "👆 Choose what to edit with the buttons above, or press <b>" + BtnCancel + "</b>"
	textAddCanceled    = "❌ Wish adding canceled"
	textEditCanceled   = "❌ Editing canceled"
	textNothingPending = "Nothing to cancel 🙂"
	textWishAdded      = "✅ <b>Wish added!</b>"
	textWishUpdated    = "✅ <b>Wish updated!</b>"
	textQuota          = "❌ You've reached the limit of %d wishes"
	textWishNotFound   = "❌ Wish not found"
	textNotYourWish    = "❌ This is not your wish!"
	textFailed         = "⚠️ Something went wrong. Please try again."
	textConfirmDelete  = "❓ Are you sure you want to delete?\n\n📦 <b>%s</b>"
	textDeleted        = "✅ Wish deleted"
	textDeleteFailed   = "❌ Failed to delete wish"
	textDeleteCanceled = "Delete canceled"
	textEditMenu       = "✏️ <b>Edit Wish</b>\n\n📦 <b>%s</b>\n\nChoose what you want to edit:"

	textListEmpty  = "📝 <b>Your wishlist is empty</b>\n\nAdd your first wish by clicking <b>" + BtnAddWish + "</b>"
	textListHeader = "📝 <b>Your wishlist</b>\nTotal wishes: %d\n\nHere are your wishes:"

	textShareEmpty = "📝 <b>Your wishlist is empty</b>\n\nAdd some wishes first before sharing!"
	textShare      = "🔗 <b>Your wishlist link</b>\n\n" +
		"Share this link with friends and family so they can see what gifts you'd love to receive!\n\n" +
		"📋 Total wishes: %d\n\n" +
		"<code>%s</code>\n\n" +
		"Just copy and send this link!"
	textSharePrivate = "\n\n🔒 Your wishlist is private right now. Make it public in <b>" + BtnSettings + "</b> so the link works."

	textSharedNotFound = "❌ Wishlist not found or link expired"
	textSharedPrivate  = "🔒 This wishlist is private"
	textSharedEmpty    = "📝 %s's wishlist is empty"
	textSharedHeader   = "👋 Hi, %s!\n\n🎁 <b>%s's wishlist</b>\n📋 Total wishes: %d\n\nHere's what they'd like to receive:"
	textSharedTip      = "💡 <b>Tip:</b> Save or note down what you plan to gift!"

	textSettings = "⚙️ <b>Settings</b>\n\nWishlist visibility: <b>%s</b>\n\n" +
		"Public wishlists can be opened by anyone with your share link."
	textPublic  = "🌍 Public"
	textPrivate = "🔒 Private"

	textStats = "📊 <b>Stats</b>\n\nUsers: %d (public: %d)\nWishes: %d\nUsers with wishes: %d"

	textUnknown      = "🤔 I didn't understand that. Use the menu below or /help."
	textUnknownPhoto = "📸 Nice photo! To attach it to a wish, start with <b>" + BtnAddWish + "</b>."
	textUnknownDoc   = "📎 Files are not supported. Send photos as pictures, not documents."
	textUnsupported  = "Unsupported action"
	textRateLimited  = "⏳ Too many requests, slow down a little."
	textAdminOnly    = "⛔ This command is for the bot admin only."
)
