package session

import "github.com/google/uuid"

// RequestMetadata は呼び出し側が提示するトークンの読み口。
// cookieでもヘッダでも、トランスポートはこのコアから見えない。
type RequestMetadata interface {
	Get(name string) (string, bool)
}

// ResponseMetadata は発行したトークンの書き口。
type ResponseMetadata interface {
	Set(name string, value string)
}

// Provider はカートIDの解決を担う。DBアクセスなし。
type Provider struct {
	tokenName string
	newID     func() string
}

// DI
func NewProvider(tokenName string) *Provider {
	return &Provider{
		tokenName: tokenName,
		newID:     uuid.NewString,
	}
}

// ResolveCartID は提示済みトークンをそのまま返す。
// 無ければ128bitランダムの新規トークンを発行してレスポンスに載せる。
func (p *Provider) ResolveCartID(req RequestMetadata, resp ResponseMetadata) string {
	if v, ok := req.Get(p.tokenName); ok && v != "" {
		return v
	}

	cartID := p.newID()
	resp.Set(p.tokenName, cartID)
	return cartID
}
