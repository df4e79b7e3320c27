package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Live viewer
		"Fetch failed (%s), backing off": "取得に失敗しました (%s)。待機します",
		"Fetch failed: %s":               "取得に失敗しました: %s",
		"Quit requested":                 "終了が要求されました",

		// Recorder
		"Fetching first frame":                       "最初のフレームを取得中",
		"Writing %d frames at %.3f fps (%dx%d) to %s": "%d フレームを %.3f fps (%dx%d) で %s へ書き込み中",
		"Wrote %d frames in %.2fs (%d failed fetches frozen over)": "%d フレームを %.2f 秒で書き込みました (取得失敗 %d 件は静止複製)",
	})
}
