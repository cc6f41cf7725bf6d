package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Recorder lifecycle (info)
		"Recording started: session %s at %d fps":           "録画を開始しました: セッション %s (%d fps)",
		"Recording stopped: session %s, %d frames captured": "録画を停止しました: セッション %s, %d フレームをキャプチャ",
		"Encoded %d frames to %s in %s":                     "%d フレームを %s にエンコードしました (%s)",
		"Encode failed for session %s: %v":                  "セッション %s のエンコードに失敗しました: %v",
		"Cannot start recording: %v":                        "録画を開始できません: %v",
		"Failed to start recording: %v":                     "録画の開始に失敗しました: %v",
		"Stop requested but no recording session is active": "停止が要求されましたが録画中のセッションがありません",
		"Failed to release temp directory lock: %v":         "一時ディレクトリのロック解放に失敗しました: %v",

		// Persistence worker
		"Persistence worker started: %s":                               "保存ワーカーを開始しました: %s",
		"Persistence worker drained %d frames (written %d, failed %d)": "保存ワーカーが %d フレームを書き出しました (成功 %d, 失敗 %d)",
		"Failed to persist frame %d: %v":                               "フレーム %d の保存に失敗しました: %v",

		// Capture dispatcher
		"Read executor busy, frame dropped":         "読み取りエグゼキュータがビジーのためフレームを破棄しました",
		"Region %d,%d %dx%d outside %dx%d, skipped": "領域 %d,%d %dx%d が %dx%d の範囲外のためスキップしました",
		"Read pixels failed: %v":                    "ピクセルの読み取りに失敗しました: %v",

		// Encode finalizer
		"Waiting for persistence worker to drain": "保存ワーカーの完了を待っています",
		"Removed temp directory %s":               "一時ディレクトリ %s を削除しました",
		"Encoding %d frames at %d fps to %s":      "%d フレームを %d fps で %s にエンコード中",
		"Could not inspect output %s: %v":         "出力 %s を解析できませんでした: %v",
		"Renumbered %d frames to close gaps":      "欠番を詰めるため %d フレームの番号を振り直しました",
		"Running %s %s":                           "%s %s を実行中",
		"ffmpeg stderr: %s":                       "ffmpeg 標準エラー出力: %s",

		// CLI
		"Interrupted, stopping recording...": "中断されました。録画を停止しています...",
		"Serving metrics on %s":              "%s でメトリクスを公開しています",
		"Summary written to %s":              "サマリーを %s に書き出しました",
		"Output saved to %s":                 "出力を %s に保存しました",
		"Captured %d frames, dropped %d":     "%d フレームをキャプチャ、%d フレームを破棄しました",
		"Metrics server failed: %v":          "メトリクスサーバーが停止しました: %v",
		"Failed to write summary: %v":        "サマリーの書き出しに失敗しました: %v",
	})
}
