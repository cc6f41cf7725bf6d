// Package main provides localization for the framerec CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Capture":  "キャプチャ",
		"Source":   "ソース",
		"Encoding": "エンコード",
		"Output":   "出力",
		"Logging":  "ログ",

		// Root command
		"Record rendered frames to a video file": "描画フレームを動画ファイルに記録",

		// Record command
		"Record frames from a source and encode them":                                    "ソースからフレームを記録してエンコード",
		"YAML configuration file":                                                        "YAML設定ファイル",
		"Maximum captured frames per second (0 = unlimited)":                             "1秒あたりの最大キャプチャ数（0 = 無制限）",
		"Render loop ticks per second":                                                   "描画ループの1秒あたりのティック数",
		"Recording length (0 = until interrupted)":                                       "録画時間（0 = 中断まで）",
		"Capture region as left,top,width,height":                                        "キャプチャ領域（left,top,width,height）",
		"Pixel read executor (inline, loop, main)":                                       "ピクセル読み取りエグゼキュータ（inline, loop, main）",
		"Frame file format (bmp, png, jpg)":                                              "フレームファイル形式（bmp, png, jpg）",
		"Directory for frame files":                                                      "フレームファイルの保存先",
		"Frame source (pattern, screen, chrome)":                                         "フレームソース（pattern, screen, chrome）",
		"Source width":                                                                   "ソースの幅",
		"Source height":                                                                  "ソースの高さ",
		"Page URL for the chrome source":                                                 "chromeソースで開くページURL",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome実行ファイルのパス（未指定時はCHROME_PATH環境変数、次にシステムデフォルト）",
		"Run browser in non-headless mode":                                               "ブラウザを非ヘッドレスモードで実行",
		"Frame rate of the encoded video":                                                "エンコード後の動画のフレームレート",
		"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)":                      "ffmpegのパス（未指定時はFFMPEG_PATH環境変数、次にPATH）",
		"Extra encoder arguments":                                                        "追加のエンコーダ引数",
		"Directory for auto-named videos":                                                "自動命名される動画の保存先",
		"Write a Markdown session summary to this path":                                  "セッションのMarkdownサマリーを書き出すパス",
		"Serve Prometheus metrics on this address":                                       "Prometheusメトリクスを公開するアドレス",
		"Log level (debug, info, warn, error)":                                           "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":                                                     "ログ形式（console, json）",
		"Suppress all log output":                                                        "すべてのログ出力を抑制",

		// Version command
		"Show version information": "バージョン情報を表示",
		"framerec version %s":      "framerec バージョン %s",

		// Summary labels
		"Recording Summary": "録画サマリー",
		"Generated":         "生成日時",
		"Session":           "セッション",
		"Item":              "項目",
		"Value":             "値",
		"Session ID":        "セッションID",
		"Started At":        "開始日時",
		"Duration":          "録画時間",
		"Result":            "結果",
		"Success":           "成功",
		"Failed":            "失敗",
		"Error":             "エラー",
		"Accepted":          "受理",
		"Dropped":           "破棄",
		"Queue Full":        "キュー満杯",
		"Rate Limited":      "レート制限",
		"Out of Bounds":     "範囲外",
		"Read Failed":       "読み取り失敗",
		"Executor Busy":     "エグゼキュータ混雑",
		"After Stop":        "停止後",
		"Settings":          "設定",
		"Source Size":       "ソースサイズ",
		"Capture FPS":       "キャプチャFPS",
		"Unlimited":         "無制限",
		"Image Format":      "画像形式",
		"Frame Rate":        "フレームレート",
		"Encoder Params":    "エンコーダ引数",
		"Video":             "動画",
		"Frames Written":    "書き出しフレーム数",
		"Write Failures":    "書き出し失敗",
		"Frames Encoded":    "エンコードフレーム数",
		"Codec":             "コーデック",
		"Video Size":        "動画サイズ",
		"Video Duration":    "動画の長さ",
		"File Size":         "ファイルサイズ",
		"Encode Time":       "エンコード時間",
		"N/A":               "N/A",
	})
}
