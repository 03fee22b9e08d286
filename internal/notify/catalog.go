package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyTimerTitle     = "Timer"
	keyIntervalBody   = "Interval %d of %d elapsed"
	keyPomodoroTitle  = "Pomodoro"
	keyShortBreakBody = "Work complete! Time for a break"
	keyLongBreakBody  = "Work complete! Time for a long break"
	keyWorkBody       = "Break over! Back to work"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyTimerTitle:     keyTimerTitle,
		keyIntervalBody:   keyIntervalBody,
		keyPomodoroTitle:  keyPomodoroTitle,
		keyShortBreakBody: keyShortBreakBody,
		keyLongBreakBody:  keyLongBreakBody,
		keyWorkBody:       keyWorkBody,
	},
	language.Japanese: {
		keyTimerTitle:     "タイマー通知",
		keyIntervalBody:   "%d回目の通知です（全%d回）",
		keyPomodoroTitle:  "ポモドーロ",
		keyShortBreakBody: "作業完了！休憩時間です",
		keyLongBreakBody:  "作業完了！長い休憩時間です",
		keyWorkBody:       "休憩終了！作業を始めましょう",
	},
}

func newCatalog() (*catalog.Builder, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, text := range entries {
			if err := builder.SetString(tag, key, text); err != nil {
				return nil, err
			}
		}
	}
	return builder, nil
}

func newPrinter(locale string) (*message.Printer, error) {
	builder, err := newCatalog()
	if err != nil {
		return nil, err
	}
	matcher := language.NewMatcher([]language.Tag{language.English, language.Japanese})
	_, index := language.MatchStrings(matcher, locale)
	tag := []language.Tag{language.English, language.Japanese}[index]
	return message.NewPrinter(tag, message.Catalog(builder)), nil
}
