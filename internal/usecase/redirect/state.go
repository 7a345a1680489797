// Package redirect описывает последовательность открытия нативного приложения
// со страницы шаринга: попытка deep link, затем предложение установки и, по
// желанию пользователя, веб-версия рецепта.
//
// Сигнала «приложение открылось» не существует. После перехода по deep link
// страница ждёт фиксированное время и переходит к предложению установки;
// если приложение перехватило переход, страница к этому моменту уже закрыта.
package redirect

// State — состояние попытки открытия приложения.
type State string

const (
	StateInitializing   State = "initializing"
	StateAttemptingOpen State = "attempting-native-open"
	StateInstallPrompt  State = "showing-install-prompt"
	StateWebContent     State = "showing-web-content"
)

// Event — событие, переводящее страницу между состояниями.
type Event string

const (
	// EventStart — ключ SDK задан, начинаем попытку.
	EventStart        Event = "start"
	// EventNoSDKKey — ключа нет, попытка не выполняется.
	EventNoSDKKey     Event = "no_sdk_key"
	EventSDKAbsent    Event = "sdk_absent"
	EventSDKInitError Event = "sdk_init_error"
	// EventWaitElapsed — истекло ожидание после перехода по deep link.
	EventWaitElapsed  Event = "wait_elapsed"
	EventViewWeb      Event = "view_web"
)

var transitions = map[State]map[Event]State{
	StateInitializing: {
		EventStart:    StateAttemptingOpen,
		EventNoSDKKey: StateInstallPrompt,
	},
	StateAttemptingOpen: {
		EventSDKAbsent:    StateInstallPrompt,
		EventSDKInitError: StateInstallPrompt,
		EventWaitElapsed:  StateInstallPrompt,
	},
	StateInstallPrompt: {
		EventViewWeb: StateWebContent,
	},
}

// Next возвращает состояние после события. Неизвестная пара оставляет состояние прежним.
func Next(s State, e Event) (State, bool) {
	to, ok := transitions[s][e]
	if !ok {
		return s, false
	}
	return to, true
}

// Table возвращает таблицу переходов в виде, пригодном для JSON.
func Table() map[string]map[string]string {
	out := make(map[string]map[string]string, len(transitions))
	for from, events := range transitions {
		row := make(map[string]string, len(events))
		for ev, to := range events {
			row[string(ev)] = string(to)
		}
		out[string(from)] = row
	}
	return out
}
