package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/api"
)

func main() {
	app := kingpin.New("bizgen", "Business content generator")
	app.HelpFlag.Short('h')

	var (
		configPath = app.Flag("config", "Config file").Short('c').Default(defaultConfigPath()).String()
		baseURL    = app.Flag("url", "Backend base URL").String()
		dataDir    = app.Flag("data-dir", "Directory for token and cache").String()
		logLevel   = app.Flag("log-level", "Log level (debug, info, warning, error)").Short('l').String()
		timeout    = app.Flag("timeout", "Request timeout").Duration()
	)

	// auth
	login := app.Command("login", "Sign in")
	var (
		loginEmail = login.Arg("email", "Email address").Required().String()
		loginPw    = login.Flag("password", "Password").Short('p').Required().String()
	)
	signup := app.Command("signup", "Create an account")
	var (
		signupName  = signup.Arg("name", "Full name").Required().String()
		signupEmail = signup.Arg("email", "Email address").Required().String()
		signupPw    = signup.Flag("password", "Password").Short('p').Required().String()
	)
	app.Command("logout", "Sign out")
	app.Command("whoami", "Show the signed in user")

	password := app.Command("password", "Manage the password")
	forgot := password.Command("forgot", "Request a reset token")
	forgotEmail := forgot.Arg("email", "Email address").Required().String()
	reset := password.Command("reset", "Set a new password with a reset token")
	var (
		resetToken = reset.Arg("token", "Reset token").Required().String()
		resetPw    = reset.Arg("password", "New password").Required().String()
	)
	change := password.Command("change", "Change the password of the signed in user")
	changePw := change.Arg("password", "New password").Required().String()

	profile := app.Command("profile", "Change the profile")
	profileSet := profile.Command("set", "Change name or email")
	var (
		profileName  = profileSet.Flag("name", "Full name").String()
		profileEmail = profileSet.Flag("email", "Email address").String()
	)
	profileImage := profile.Command("image", "Upload a profile image")
	profileImageFile := profileImage.Arg("file", "Image file").Required().ExistingFile()

	// documents
	doc := app.Command("doc", "Generated documents")
	docLs := doc.Command("ls", "List documents").Default()
	docLsKind := docLs.Arg("kind", "Document kind").String()
	docShow := doc.Command("show", "Show a document")
	var (
		docShowKind = docShow.Arg("kind", "Document kind").Required().String()
		docShowID   = docShow.Arg("id", "Document id").Required().Int()
		docShowHTML = docShow.Flag("html", "Show as HTML").Bool()
	)
	docEdit := doc.Command("edit", "Replace the content of a document")
	var (
		docEditKind = docEdit.Arg("kind", "Document kind").Required().String()
		docEditID   = docEdit.Arg("id", "Document id").Required().Int()
		docEditFile = docEdit.Arg("file", "File with the new content").Required().ExistingFile()
	)
	docRm := doc.Command("rm", "Delete a document")
	var (
		docRmKind = docRm.Arg("kind", "Document kind").Required().String()
		docRmID   = docRm.Arg("id", "Document id").Required().Int()
	)
	docExport := doc.Command("export", "Export documents as PDF or DOCX")
	var (
		docExportKind   = docExport.Arg("kind", "Document kind").Required().String()
		docExportIDs    = docExport.Arg("id", "Document ids").Required().Ints()
		docExportFormat = docExport.Flag("format", "Output format").Short('f').Default("pdf").Enum("pdf", "docx")
		docExportOut    = docExport.Flag("output", "Output directory").Short('o').Default(".").String()
	)

	// presentations
	dk := app.Command("deck", "Presentations")
	dk.Command("ls", "List presentations").Default()
	dkGen := dk.Command("generate", "Generate a presentation")
	var o deckOptions
	dkGen.Arg("prompt", "What the presentation is about").Required().StringVar(&o.prompt)
	dkGen.Flag("slides", "Number of slides").Short('n').Default("8").IntVar(&o.slides)
	dkGen.Flag("theme", "Color theme").Short('t').StringVar(&o.theme)
	dkGen.Flag("urls", "Comma separated website URLs for context").StringVar(&o.urls)
	dkGen.Flag("industry", "Industry sector").StringVar(&o.industry)
	dkGen.Flag("pitch", "One line pitch").StringVar(&o.pitch)
	dkGen.Flag("language", "Language").StringVar(&o.language)
	dkGen.Flag("tone", "Tone").StringVar(&o.tone)
	dkGen.Flag("images", "Generate slide images").BoolVar(&o.images)

	dkShow := dk.Command("show", "Show the slides of a presentation")
	dkShowID := dkShow.Arg("id", "Presentation id").Required().Int()
	dkImages := dk.Command("images", "Generate missing slide images")
	dkImagesID := dkImages.Arg("id", "Presentation id").Required().Int()

	dkTitle := dk.Command("set-title", "Set the title of a slide")
	var (
		dkTitleID    = dkTitle.Arg("id", "Presentation id").Required().Int()
		dkTitleSlide = dkTitle.Arg("slide", "Slide number").Required().Int()
		dkTitleText  = dkTitle.Arg("text", "Title").Required().String()
	)
	dkSub := dk.Command("set-subtitle", "Set the subtitle of a slide")
	var (
		dkSubID    = dkSub.Arg("id", "Presentation id").Required().Int()
		dkSubSlide = dkSub.Arg("slide", "Slide number").Required().Int()
		dkSubText  = dkSub.Arg("text", "Subtitle").Required().String()
	)
	dkPara := dk.Command("set-paragraph", "Set a paragraph of a slide")
	var (
		dkParaID    = dkPara.Arg("id", "Presentation id").Required().Int()
		dkParaSlide = dkPara.Arg("slide", "Slide number").Required().Int()
		dkParaN     = dkPara.Arg("n", "Paragraph number").Required().Int()
		dkParaText  = dkPara.Arg("text", "Text").Required().String()
	)
	dkAddPara := dk.Command("add-paragraph", "Add an empty paragraph to a slide")
	var (
		dkAddParaID    = dkAddPara.Arg("id", "Presentation id").Required().Int()
		dkAddParaSlide = dkAddPara.Arg("slide", "Slide number").Required().Int()
	)
	dkItem := dk.Command("set-item", "Change an item of a slide")
	var (
		dkItemID    = dkItem.Arg("id", "Presentation id").Required().Int()
		dkItemSlide = dkItem.Arg("slide", "Slide number").Required().Int()
		dkItemKind  = dkItem.Arg("kind", "bullets, cycle, arrows or timeline").Required().String()
		dkItemN     = dkItem.Arg("n", "Item number").Required().Int()
		dkItemTitle = newOptional(dkItem.Flag("title", "Item title"))
		dkItemText  = newOptional(dkItem.Flag("text", "Item text"))
	)
	dkAddItem := dk.Command("add-item", "Add an empty item to a slide")
	var (
		dkAddItemID    = dkAddItem.Arg("id", "Presentation id").Required().Int()
		dkAddItemSlide = dkAddItem.Arg("slide", "Slide number").Required().Int()
		dkAddItemKind  = dkAddItem.Arg("kind", "bullets, cycle, arrows or timeline").Required().String()
	)
	dkSave := dk.Command("save", "Store the edited slides")
	dkSaveID := dkSave.Arg("id", "Presentation id").Required().Int()
	dkDiscard := dk.Command("discard", "Drop unsaved edits")
	dkDiscardID := dkDiscard.Arg("id", "Presentation id").Required().Int()
	dkTheme := dk.Command("theme", "Change the color theme")
	var (
		dkThemeID   = dkTheme.Arg("id", "Presentation id").Required().Int()
		dkThemeName = dkTheme.Arg("theme", "Theme name or #rrggbb").Required().String()
	)
	dkRm := dk.Command("rm", "Delete a presentation")
	dkRmID := dkRm.Arg("id", "Presentation id").Required().Int()
	dkExport := dk.Command("export", "Export a presentation as PDF")
	var (
		dkExportID  = dkExport.Arg("id", "Presentation id").Required().Int()
		dkExportOut = dkExport.Flag("output", "Output directory").Short('o').Default(".").String()
	)

	// logos
	logo := app.Command("logo", "Logos")
	logo.Command("ls", "List logos").Default()
	logoGen := logo.Command("generate", "Generate a logo")
	var lr api.LogoRequest
	logoGen.Arg("name", "Business name").Required().StringVar(&lr.Title)
	logoGen.Flag("vision", "Logo description").Required().StringVar(&lr.Vision)
	logoGen.Flag("palette", "Color palette").Default("Vibrant").StringVar(&lr.PaletteName)
	logoGen.Flag("style", "Logo style").Default("Minimal").StringVar(&lr.Style)
	logoBg := logo.Command("rmbg", "Remove the background of a logo")
	logoBgID := logoBg.Arg("id", "Logo id").Required().Int()
	logoRm := logo.Command("rm", "Delete a logo")
	logoRmID := logoRm.Arg("id", "Logo id").Required().Int()

	// videos
	video := app.Command("video", "Short videos")
	video.Command("ls", "List videos").Default()
	videoGen := video.Command("generate", "Generate a video")
	var (
		videoPrompt   = videoGen.Arg("prompt", "Video description").Required().String()
		videoAspect   = videoGen.Flag("aspect", "Aspect ratio").String()
		videoDuration = videoGen.Flag("duration", "Duration in seconds").Int()
		videoAudio    = videoGen.Flag("audio", "Generate audio").Bool()
	)

	// names
	names := app.Command("names", "Business names")
	namesGen := names.Command("generate", "Suggest business names")
	var nr api.NamesRequest
	namesGen.Arg("prompt", "Describe the business").Required().StringVar(&nr.Prompt)
	namesGen.Flag("industry", "Industry").Required().StringVar(&nr.Industry)
	namesGen.Flag("tone", "Tone").Default("Professional").StringVar(&nr.Tone)
	namesGen.Flag("count", "Number of names").Short('n').Default("10").IntVar(&nr.Count)
	names.Command("history", "Show earlier suggestions")

	// chat
	chat := app.Command("chat", "Business assistant chat")
	chat.Command("ls", "List chat sessions").Default()
	chatShow := chat.Command("show", "Show the messages of a session")
	chatShowID := chatShow.Arg("session", "Session id").Required().Int()
	chatSend := chat.Command("send", "Send a message")
	var (
		chatSendMsg     = chatSend.Arg("message", "Message").Required().String()
		chatSendSession = chatSend.Flag("session", "Session id, a new session is started if not set").Short('s').Int()
	)
	chatRename := chat.Command("rename", "Rename a session")
	var (
		chatRenameID    = chatRename.Arg("session", "Session id").Required().Int()
		chatRenameTitle = chatRename.Arg("title", "Title").Required().String()
	)
	chatRm := chat.Command("rm", "Delete a session")
	chatRmID := chatRm.Arg("session", "Session id").Required().Int()
	chat.Command("clear", "Delete all sessions")

	// website builder
	site := app.Command("site", "Website projects")
	site.Command("ls", "List projects").Default()
	siteCreate := site.Command("create", "Create a project")
	var (
		siteTitle  = siteCreate.Arg("title", "Title").Required().String()
		sitePrompt = siteCreate.Arg("prompt", "What to build").Required().String()
		siteDesc   = siteCreate.Flag("description", "Description").String()
	)
	siteEnhance := site.Command("enhance", "Improve a prompt")
	siteEnhancePrompt := siteEnhance.Arg("prompt", "Prompt").Required().String()
	siteChat := site.Command("chat", "Talk to the assistant of a project")
	var (
		siteChatID  = siteChat.Arg("id", "Project id").Required().String()
		siteChatMsg = siteChat.Arg("message", "Message").Required().String()
	)
	siteGen := site.Command("generate", "Generate the code of a project")
	var (
		siteGenID     = siteGen.Arg("id", "Project id").Required().String()
		siteGenPrompt = siteGen.Flag("prompt", "Prompt, defaults to the project prompt").String()
	)
	siteRm := site.Command("rm", "Delete a project")
	siteRmID := siteRm.Arg("id", "Project id").Required().String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	s, err := loadSettings(*configPath)
	if err != nil {
		fail(err)
	}
	s.applyEnv(os.Getenv)
	s.override(*baseURL, *dataDir, *logLevel, *timeout)
	bizgen.SetLogLevel(s.LogLevel)

	e, err := setup(s)
	if err != nil {
		fail(err)
	}

	switch command {
	case "login":
		err = doLogin(e, *loginEmail, *loginPw)
	case "signup":
		err = doSignup(e, *signupName, *signupEmail, *signupPw)
	case "logout":
		err = doLogout(e)
	case "whoami":
		err = doWhoami(e)
	case "password forgot":
		err = doForgotPassword(e, *forgotEmail)
	case "password reset":
		err = doResetPassword(e, *resetToken, *resetPw)
	case "password change":
		err = doChangePassword(e, *changePw)
	case "profile set":
		err = doProfileUpdate(e, *profileName, *profileEmail)
	case "profile image":
		err = doProfileImage(e, *profileImageFile)

	case "doc ls":
		err = doDocList(e, *docLsKind)
	case "doc show":
		err = doDocShow(e, *docShowKind, *docShowID, *docShowHTML)
	case "doc edit":
		err = doDocEdit(e, *docEditKind, *docEditID, *docEditFile)
	case "doc rm":
		err = doDocDelete(e, *docRmKind, *docRmID)
	case "doc export":
		err = doDocExport(e, *docExportKind, *docExportIDs, *docExportFormat, *docExportOut)

	case "deck ls":
		err = doDeckList(e)
	case "deck generate":
		err = doDeckGenerate(e, o)
	case "deck show":
		err = doDeckShow(e, *dkShowID)
	case "deck images":
		err = doDeckImages(e, *dkImagesID)
	case "deck set-title":
		err = doDeckSetTitle(e, *dkTitleID, *dkTitleSlide, *dkTitleText)
	case "deck set-subtitle":
		err = doDeckSetSubtitle(e, *dkSubID, *dkSubSlide, *dkSubText)
	case "deck set-paragraph":
		err = doDeckSetParagraph(e, *dkParaID, *dkParaSlide, *dkParaN, *dkParaText)
	case "deck add-paragraph":
		err = doDeckAddParagraph(e, *dkAddParaID, *dkAddParaSlide)
	case "deck set-item":
		err = doDeckSetItem(e, *dkItemID, *dkItemSlide, *dkItemKind, *dkItemN, dkItemTitle.get(), dkItemText.get())
	case "deck add-item":
		err = doDeckAddItem(e, *dkAddItemID, *dkAddItemSlide, *dkAddItemKind)
	case "deck save":
		err = doDeckSave(e, *dkSaveID)
	case "deck discard":
		err = doDeckDiscard(e, *dkDiscardID)
	case "deck theme":
		err = doDeckTheme(e, *dkThemeID, *dkThemeName)
	case "deck rm":
		err = doDeckDelete(e, *dkRmID)
	case "deck export":
		err = doDeckExport(e, *dkExportID, *dkExportOut)

	case "logo ls":
		err = doLogoList(e)
	case "logo generate":
		err = doLogoGenerate(e, lr)
	case "logo rmbg":
		err = doLogoRemoveBackground(e, *logoBgID)
	case "logo rm":
		err = doLogoDelete(e, *logoRmID)

	case "video ls":
		err = doVideoList(e)
	case "video generate":
		err = doVideoGenerate(e, *videoPrompt, *videoAspect, *videoDuration, *videoAudio)

	case "names generate":
		err = doNamesGenerate(e, nr)
	case "names history":
		err = doNamesHistory(e)

	case "chat ls":
		err = doChatList(e)
	case "chat show":
		err = doChatShow(e, *chatShowID)
	case "chat send":
		err = doChatSend(e, *chatSendSession, *chatSendMsg)
	case "chat rename":
		err = doChatRename(e, *chatRenameID, *chatRenameTitle)
	case "chat rm":
		err = doChatDelete(e, *chatRmID)
	case "chat clear":
		err = doChatClear(e)

	case "site ls":
		err = doSiteList(e)
	case "site create":
		err = doSiteCreate(e, *siteTitle, *siteDesc, *sitePrompt)
	case "site enhance":
		err = doSiteEnhance(e, *siteEnhancePrompt)
	case "site chat":
		err = doSiteChat(e, *siteChatID, *siteChatMsg)
	case "site generate":
		err = doSiteGenerate(e, *siteGenID, *siteGenPrompt)
	case "site rm":
		err = doSiteDelete(e, *siteRmID)

	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fail(err)
	}
	logging.Sync()
	os.Exit(0)
}

// fail reports err and exits.
// API errors were already printed by the client.
func fail(err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		fmt.Printf("Error: %v\n", err)
	}
	logging.Sync()
	os.Exit(1)
}

// optional is a string flag that tells if it was given.
type optional struct {
	set   bool
	value string
}

func newOptional(f *kingpin.FlagClause) *optional {
	o := &optional{}
	f.Action(func(*kingpin.ParseContext) error {
		o.set = true
		return nil
	}).StringVar(&o.value)
	return o
}

func (o *optional) get() *string {
	if !o.set {
		return nil
	}
	return &o.value
}

// override applies non-empty command line values.
func (s *settings) override(baseURL, dataDir, logLevel string, timeout time.Duration) {
	if baseURL != "" {
		s.BaseURL = baseURL
	}
	if dataDir != "" {
		s.DataDir = dataDir
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if timeout > 0 {
		s.Timeout = timeout
	}
}
