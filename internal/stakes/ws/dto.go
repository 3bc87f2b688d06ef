package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// StakeID: obrigatório para subscribe/unsubscribe ("*" assina tudo)
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	StakeID string `json:"stakeId"` // requerido em subscribe/unsubscribe
}

// StakeUpdate representa uma mudança de status enviada para clientes WebSocket
type StakeUpdate struct {
	StakeID string      `json:"stakeId"`
	Payload interface{} `json:"payload"`
}
