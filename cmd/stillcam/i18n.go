// Package main provides localization for the stillcam CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"View and record IP cameras that serve still JPEG snapshots.": "静止JPEGを配信するIPカメラの表示と録画",

		// View command
		"Show a live view of the camera.": "カメラのライブビューを表示",

		// Record command
		"Record the camera to a video file.": "カメラを動画ファイルに録画",

		// Version command
		"Show version information.": "バージョン情報を表示",
		"stillcam version %s":       "stillcam バージョン %s",

		// Flags
		"Camera capture URL (default: http://192.168.4.1/capture.jpg).": "カメラのキャプチャURL（デフォルト: http://192.168.4.1/capture.jpg）",
		"Target poll rate in frames per second (default: 20).":          "目標ポーリングレート（fps、デフォルト: 20）",
		"Window title.":                                      "ウィンドウタイトル",
		"Overlay the display rate on each frame.":            "各フレームに表示レートをオーバーレイ",
		"Downscale frames to this width before display.":     "表示前にフレームをこの幅に縮小",
		"Connection timeout in seconds (default: 0.5).":      "接続タイムアウト秒数（デフォルト: 0.5）",
		"Read timeout in seconds (default: 1.0).":            "読み込みタイムアウト秒数（デフォルト: 1.0）",
		"Extra request header as key=value (repeatable).":    "追加リクエストヘッダ key=value（繰り返し可）",
		"YAML configuration file.":                           "YAML設定ファイル",
		"Log level (debug, info, warn, error).":              "ログレベル（debug, info, warn, error）",
		"Suppress all log output.":                           "全てのログ出力を抑制",
		"Output video file path (default: capture.avi).":     "出力動画ファイルパス（デフォルト: capture.avi）",
		"Output frame rate (default: 10).":                   "出力フレームレート（デフォルト: 10）",
		"Capture duration in seconds (default: 30).":         "キャプチャ時間（秒、デフォルト: 30）",
		"Video codec (mjpeg or av1, default: mjpeg).":        "動画コーデック（mjpeg または av1、デフォルト: mjpeg）",
		"Force output size as WxH, e.g. 1280x720.":           "出力サイズを WxH で指定（例: 1280x720）",
		"MJPEG quality 1-100 or AV1 CQ 0-63.":                "MJPEG品質 1-100 または AV1 CQ 0-63",
		"AV1 target bitrate in kbps (0 = derived from resolution).": "AV1目標ビットレート（kbps、0 = 解像度から算出）",
		"Per-fetch timeout in seconds (default: 1.5).":       "フェッチごとのタイムアウト秒数（デフォルト: 1.5）",
		"Output capture summary to file (Markdown format).":  "キャプチャサマリーをファイルに出力（Markdown形式）",
		"Log per-frame status (same as --log-level debug).":  "フレームごとの状態をログ出力（--log-level debug と同等）",

		// Runtime messages
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Connecting to %s":                "%s へ接続中",
		"Polling at %.1f fps target":      "目標 %.1f fps でポーリング中",
		"Viewer closed":                   "ビューアを閉じました",
		"Dropped %d stale frames":         "%d 件の古いフレームを破棄しました",
		"Recording %d frames at %.1f fps": "%d フレームを %.1f fps で録画中",
		"Output saved to %s":              "出力を %s に保存しました",
		"Failed to write output: %s":      "出力の書き込みに失敗しました: %s",
		"Summary written to %s":           "サマリーを %s に書き込みました",
	})
}
