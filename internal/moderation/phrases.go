package moderation

// Default phrase lists for the translation-community chats the bot
// moderates. All matching is case-insensitive; see matcher.go for the
// boundary rules.

// defaultForbiddenPhrases trigger silent deletion of the message.
var defaultForbiddenPhrases = []string{
	"го в лс",
	"в лс",
	"файлик лс",
	"файлик в лс",
	"файлик в личку",
	"пиши в лс",
	"напиши в лс",
	"в личные сообщения",
	"скинь в личку",
	"в личку",
	"кину в личку",
	"пишите в личку",
	"вышлю в лс",
	"скинь лс",
	"пиши лс",
	"напиши лс",
	"скинь в лс",
}

// defaultWarningPhrases earn the sender a warning; three warnings
// escalate to a permanent mute.
var defaultWarningPhrases = []string{
	"есть машинка",
	"скинь машинку",
	"скину машинку",
	"го машинку",
	"го машинка",
	"лс машинка",
	"лс машинку",
	"лс файлик",
	"лс файл",
	"машинка лс",
	"машинку лс",
	"файлик лс",
	"файл лс",
	"го файлик",
	"скинь файлик",
	"скинь файл",
	"скину файлик",
	"скину файл",
	"бот дурак",
	"личка файлик",
	"личка машинка",
}

// defaultDeletionInquiryPhrases are questions about disappeared
// messages; the bot answers them with an explanation.
var defaultDeletionInquiryPhrases = []string{
	"почему удалил",
	"удаляются сообщения",
	"удалилось сообщение",
	"почему удалилось",
	"мои сообщения удалились",
	"удалились сообщения",
	"пропали сообщения",
	"сообщения пропали",
	"пропало сообщение",
	"сообщение пропало",
	"сообщение удалилось",
}

// defaultSafeContexts mark benign messages that happen to contain an
// ambiguous fragment ("в личке" about a past conversation, not an
// invitation). Any of these suppresses classification entirely.
var defaultSafeContexts = []string{
	"что я с кем-то",
	"с кем-то вчера",
	"с кем-то сегодня",
	"с кем-то общался",
	"с кем-то общалась",
	"с кем-то говорил",
	"с кем-то говорила",
	"с кем-то встречался",
	"с кем-то встречалась",
	"общалась в личке",
	"общался в личке",
	"говорил в личке",
	"говорила в личке",
}
