// Package clock は現在時刻の取得を抽象化する。
// 投稿の作成時刻とレビュー時刻のスタンプに使用し、テストでは固定時刻を注入する。
package clock

import "time"

// Clock は現在時刻の供給インターフェース。
type Clock interface {
	Now() time.Time
}

// SystemClock はtime.Nowをそのまま返すClockの実装。
type SystemClock struct{}

// Now は現在のシステム時刻を返す。
func (SystemClock) Now() time.Time {
	return time.Now()
}
