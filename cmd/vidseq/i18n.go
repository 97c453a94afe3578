// Package main provides localization for the vidseq CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":     "入力",
		"Windowing": "シーケンス分割",
		"Decoder":   "デコーダー",
		"Output":    "出力",
		"Debug":     "デバッグ",
		"Logging":   "ログ",

		// Root command
		"Slice decoded video into fixed-size frame sequences":                                                  "デコードした動画を固定長のフレームシーケンスに分割",
		"vidseq streams decoded frames into non-overlapping windows and verifies them against batch decoding.": "vidseqはデコードしたフレームを重複しないシーケンスに分割し、一括デコードの結果と照合します。",

		// Verify command
		"Verify streamed sequences against batch decoding": "ストリーム分割したシーケンスを一括デコードと照合",
		"Decode every fixture twice, once in batch and once through the streaming windower, and compare the sequences frame by frame.": "各フィクスチャを一括とストリームの2通りでデコードし、シーケンスをフレームごとに比較します。",

		// Window command
		"Write the sequences of one video to a directory":                                                                        "1本の動画のシーケンスをディレクトリに書き出す",
		"Stream FILE through the windower and save each full sequence. Trailing frames that do not fill a sequence are dropped.": "FILEをストリームで分割し、完全なシーケンスごとに保存します。シーケンスに満たない末尾のフレームは破棄されます。",

		// Probe command
		"Print the video track of MP4 files":                                              "MP4ファイルの映像トラックを表示",
		"Print codec, dimensions and sample count of the first video track of each FILE.": "各FILEの最初の映像トラックのコーデック、サイズ、サンプル数を表示します。",

		// Generate command
		"Generate synthetic fixture videos":                                              "合成フィクスチャ動画を生成",
		"Render ffmpeg test patterns into DIR/cfr/CODEC-FRAMES.mp4 for use with verify.": "verifyで使うffmpegのテストパターンをDIR/cfr/CODEC-FRAMES.mp4に書き出します。",

		// Version command
		"Show version information": "バージョン情報を表示",
		"vidseq version %s":        "vidseq バージョン %s",

		// Input flags
		"YAML configuration file":                                         "YAML設定ファイル",
		"Fixtures root directory (default: .)":                            "フィクスチャのルートディレクトリ（デフォルト: .）",
		"Glob pattern under the root, repeatable (default: [cv]fr/*.mp4)": "ルート配下のGlobパターン、複数指定可（デフォルト: [cv]fr/*.mp4）",
		"Skip files whose name contains this text, repeatable":            "名前にこの文字列を含むファイルを除外、複数指定可",
		"Only verify files using this codec, repeatable":                  "このコーデックのファイルのみ検証、複数指定可",

		// Windowing flags
		"Frames per sequence (default: 5)":               "シーケンスあたりのフレーム数（デフォルト: 5）",
		"Frames per sequence":                            "シーケンスあたりのフレーム数",
		"Sequences compared per source (0 = all)":        "ソースごとに比較するシーケンス数（0 = 全て）",
		"Stop after this many sequences (0 = all)":       "このシーケンス数で停止（0 = 全て）",
		"Resize frames before comparison (WIDTHxHEIGHT)": "比較前にフレームをリサイズ（幅x高さ）",

		// Decoder flags
		"Path to ffmpeg executable":        "ffmpeg実行ファイルのパス",
		"Directory for staged input files": "入力ファイルの一時ディレクトリ",

		// Output flags
		"Write the run summary to this file (- for stdout)":       "実行サマリーをファイルに出力（- で標準出力）",
		"Summary format (markdown, json)":                         "サマリーの形式（markdown, json）",
		"Stop at the first failing source":                        "最初に失敗したソースで停止",
		"Output directory (required)":                             "出力ディレクトリ（必須）",
		"Write packed rgb24 frames instead of PNG contact sheets": "PNGのコンタクトシートの代わりにrgb24の生フレームを出力",
		"Contact sheet magnification":                             "コンタクトシートの拡大率",
		"Contact sheet background color (hex)":                    "コンタクトシートの背景色（16進数）",

		// Generate flags
		"ffmpeg encoder, repeatable": "ffmpegのエンコーダー、複数指定可",
		"Frame count, repeatable":    "フレーム数、複数指定可",
		"Frame size (WIDTHxHEIGHT)":  "フレームサイズ（幅x高さ）",
		"Frame rate":                 "フレームレート",

		// Debug flags
		"Enable debug output":                             "デバッグ出力を有効化",
		"Directory for debug output":                      "デバッグ出力のディレクトリ",
		"Save a contact sheet of every streamed sequence": "ストリームした全シーケンスのコンタクトシートを保存",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Generated %s": "%s を生成しました",

		// Error messages
		"Exactly one video file is required":  "動画ファイルを1つ指定してください",
		"At least one video file is required": "動画ファイルを1つ以上指定してください",
		"An output directory is required":     "出力ディレクトリを指定してください",
	})
}
