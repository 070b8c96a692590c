package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}/games", handler.ListGamesByTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListPlayersByTeam)
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)

	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("POST /v1/games/{gameID}/phase", handler.AdvanceGamePhase)
	mux.HandleFunc("GET /v1/games/{gameID}/roster", handler.GetGameRoster)
	mux.HandleFunc("POST /v1/games/{gameID}/roster/players", handler.AddPlayerToGameRoster)
	mux.HandleFunc("DELETE /v1/games/{gameID}/roster/{gameEventID}", handler.RemoveFromLineup)
	mux.HandleFunc("POST /v1/games/{gameID}/substitutions", handler.SubstitutePlayer)
	mux.HandleFunc("POST /v1/games/{gameID}/position-changes", handler.RecordPositionChange)
	mux.HandleFunc("POST /v1/games/{gameID}/swaps", handler.SwapPositions)

	mux.HandleFunc("POST /v1/games/{gameID}/goals", handler.RecordGoal)
	mux.HandleFunc("PATCH /v1/games/{gameID}/goals/{eventID}", handler.EditGoal)
	mux.HandleFunc("GET /v1/games/{gameID}/events", handler.ListGameEvents)
	mux.HandleFunc("GET /v1/games/{gameID}/timeline", handler.GetTimeline)

	mux.HandleFunc("GET /v1/games/{gameID}/feed", handler.PollGameFeed)
	mux.HandleFunc("POST /v1/feed", handler.IngestFeed)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/games/{gameID}/session", handler.OpenSession)
	mux.HandleFunc("GET /v1/games/{gameID}/session", handler.GetSession)
	mux.HandleFunc("DELETE /v1/games/{gameID}/session", handler.CloseSession)

	mux.HandleFunc("POST /v1/games/{gameID}/session/clicks/position", handler.ClickPosition)
	mux.HandleFunc("POST /v1/games/{gameID}/session/clicks/player", handler.ClickPlayer)
	mux.HandleFunc("POST /v1/games/{gameID}/session/bench", handler.AddToBench)

	mux.HandleFunc("DELETE /v1/games/{gameID}/session/queue/{itemID}", handler.RemoveQueuedChange)
	mux.HandleFunc("DELETE /v1/games/{gameID}/session/queue", handler.ClearQueue)
	mux.HandleFunc("POST /v1/games/{gameID}/session/cancel", handler.CancelSession)
	mux.HandleFunc("POST /v1/games/{gameID}/session/confirm", handler.ConfirmSession)
	mux.HandleFunc("PUT /v1/games/{gameID}/session/batch-mode", handler.SetBatchMode)
	mux.HandleFunc("POST /v1/games/{gameID}/session/keep-same-lineup", handler.KeepSameLineup)

	mux.HandleFunc("PUT /v1/games/{gameID}/session/formation", handler.ChangeFormation)
	mux.HandleFunc("GET /v1/games/{gameID}/session/reassignment/{gameEventID}/eligible", handler.ListEligiblePositions)
	mux.HandleFunc("PUT /v1/games/{gameID}/session/reassignment/{gameEventID}", handler.ChooseReassignment)
	mux.HandleFunc("POST /v1/games/{gameID}/session/reassignment/confirm", handler.ConfirmReassignments)

	mux.HandleFunc("DELETE /v1/games/{gameID}/session/conflicts/{eventID}", handler.DismissConflict)
}
