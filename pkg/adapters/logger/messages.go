package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Discovered %d sources in %s":                  "%[2]s で %[1]d 件のソースを検出しました",
		"Verifying %s":                                 "%s を検証中",
		"%s: %d sequences of %d frames, %d dropped":    "%s: %d 個のシーケンス (各 %d フレーム), %d フレームを破棄",
		"%s: passed":                                   "%s: 一致",
		"%s: mismatch at sequence %d frame %d":         "%s: シーケンス %d のフレーム %d で不一致",
		"%s: expected %d sequences, streamed %d":       "%s: %d 個のシーケンスを期待しましたが %d 個でした",
		"Verification completed: %d passed, %d failed": "検証が完了しました: 成功 %d, 失敗 %d",
		"Summary saved to %s":                          "サマリーを %s に保存しました",
		"Interrupted, shutting down...":                "中断されました。シャットダウン中...",

		// Decode stage
		"Decoding %d bytes":                    "%d バイトをデコード中",
		"Decoded %d frames":                    "%d フレームをデコードしました",
		"Decoding %s video %dx%d (%d samples)": "%s 動画 %dx%d をデコード中 (%d サンプル)",
		"Resizing frames to %dx%d":             "フレームを %dx%d にリサイズ中",

		// Video input stage
		"Feeding %s":                 "%s を投入中",
		"Emitted sequence %d":        "シーケンス %d を出力しました",
		"Dropped %d trailing frames": "末尾の %d フレームを破棄しました",

		// Verify stage
		"Slicing %d frames into windows of %d": "%d フレームを %d フレームごとに分割中",
		"Comparing %d sequences against %d":    "%d 個のシーケンスを %d 個と比較中",

		// Warnings
		"Skipping %s: %s":       "%s をスキップします: %s",
		"No sources matched %s": "%s に一致するソースがありません",

		// Errors
		"Failed to verify %s: %s":    "%s の検証に失敗しました: %s",
		"Failed to close %s: %s":     "%s のクローズに失敗しました: %s",
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
	})
}
