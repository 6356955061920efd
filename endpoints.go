package analyticord

import "net/http"

// authScope selects which token authorizes a request.
type authScope int

const (
	scopeBot authScope = iota
	scopeUser
)

func (s authScope) prefix() string {
	if s == scopeUser {
		return "user"
	}
	return "bot"
}

type endpoint struct {
	name   string
	method string
	path   string
	scope  authScope
}

var (
	endpointLogin   = endpoint{name: "login", method: http.MethodGet, path: "/api/botLogin", scope: scopeBot}
	endpointSubmit  = endpoint{name: "submit", method: http.MethodPost, path: "/api/submit", scope: scopeBot}
	endpointGetData = endpoint{name: "get_data", method: http.MethodGet, path: "/api/getData", scope: scopeUser}
	endpointBotInfo = endpoint{name: "bot_info", method: http.MethodGet, path: "/api/botinfo", scope: scopeUser}
	endpointBotList = endpoint{name: "bot_list", method: http.MethodGet, path: "/api/botlist", scope: scopeUser}
)
