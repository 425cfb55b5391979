package search

import "time"

type Config struct {
	IndexPath    string
	QueryTimeout time.Duration
}

// Doc 被索引的音频卡片字段
type Doc struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Request struct {
	Keyword string
	Email   string // 可选，限定归属者
	From    int
	Size    int
}

type Hit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Fields map[string]any `json:"fields"`
}

type Result struct {
	Total uint64        `json:"total"`
	Took  time.Duration `json:"took"`
	Hits  []Hit         `json:"hits"`
}
