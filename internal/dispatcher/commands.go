package dispatcher

import "regexp"

// Категории команд бота. Категория определяет проверку роли и действие.
var (
	startCommands = commandSet("start", "reset")
	userCommands  = commandSet("begin_test")
	creatorCommands = commandSet(
		"add_questions",
		"delete_questions",
		"update_questions",
	)
	informationCommands = commandSet("languages_list", "test_types_list")
	adminCommands       = commandSet("create_deep_link")
)

var (
	commandRe = regexp.MustCompile(`(?m)^/[a-z0-9_]+`)
	// Пригласительный токен — суффикс команды /start длиной ровно 36 символов.
	deepLinkRe = regexp.MustCompile(`(?m)\s[a-z0-9-]+$`)
)

const deepLinkLength = 36

func commandSet(commands ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(commands))
	for _, command := range commands {
		set[command] = struct{}{}
	}
	return set
}

// isBotCommand сообщает, является ли текст командой бота.
func isBotCommand(text string) bool {
	return commandRe.MatchString(text)
}

// parseBotCommand возвращает команду без косой черты и, если к команде
// приложен корректный пригласительный токен, сам токен.
func parseBotCommand(text string) (command, deepLink string) {
	command = commandRe.FindString(text)[1:]
	if match := deepLinkRe.FindString(text); match != "" && len(match[1:]) == deepLinkLength {
		deepLink = match[1:]
	}
	return command, deepLink
}
