package session

import "time"

// NoticeLevel is the severity of a toast
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Panel failure toasts
const (
	AnalysisFailedNotice      = "コードの解析中にエラーが発生しました"
	VisualizationFailedNotice = "可視化中にエラーが発生しました"
	ErrorAnalysisFailedNotice = "エラー解析中に問題が発生しました"
)

// Notice is a transient message for the status line
type Notice struct {
	Level   NoticeLevel
	Panel   Kind
	Message string
	Cause   error
	At      time.Time
}
