package domain

import "time"

// Task はホスト側の期限切れタスクを表す（取得時点のスナップショット）
type Task struct {
	ID           string `json:"cfe"`   // 重複排除キー
	TrackingCode string `json:"cfetp"` // 表示用の管理コード
	Link         string `json:"lk"`    // ホストでタスクを開くURL
	DueDisplay   string `json:"el"`    // サーバー側で整形済みの期限表示
	Title        string `json:"t"`     // タスク名
}

// DiscoveryResult はキーワード順・初出順に並んだタスク一覧
type DiscoveryResult []Task

// Len は件数を返す
func (r DiscoveryResult) Len() int {
	return len(r)
}

// IDs はIDを順番どおりに返す
func (r DiscoveryResult) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, t := range r {
		ids = append(ids, t.ID)
	}
	return ids
}

// Merge はIDの初出のみを残して結果を連結する
func Merge(batches ...[]Task) DiscoveryResult {
	seen := make(map[string]struct{})
	merged := make(DiscoveryResult, 0)
	for _, batch := range batches {
		for _, t := range batch {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

// Phase はモーダルの状態
type Phase string

const (
	PhaseHidden         Phase = "Hidden"
	PhaseVisiblePending Phase = "VisiblePending"
	PhaseVisibleClear   Phase = "VisibleClear"
)

// ModalState はモーダルの表示状態
type ModalState struct {
	Tasks           DiscoveryResult
	IsRefreshing    bool
	LastRefreshedAt time.Time
	Closed          bool
}

// Pending は未完了タスク数を返す
func (s ModalState) Pending() int {
	return len(s.Tasks)
}

// Phase は現在の状態を導出する
func (s ModalState) Phase() Phase {
	switch {
	case s.Closed:
		return PhaseHidden
	case len(s.Tasks) > 0:
		return PhaseVisiblePending
	default:
		return PhaseVisibleClear
	}
}

// CanClose は閉じる操作が許可されるかどうかを返す
func (s ModalState) CanClose() bool {
	return len(s.Tasks) == 0
}

// Clone は呼び出し側が変更しても影響しないコピーを返す
func (s ModalState) Clone() ModalState {
	c := s
	if s.Tasks != nil {
		c.Tasks = append(DiscoveryResult(nil), s.Tasks...)
	}
	return c
}
