package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/cmd/homeguard/commands"
	"github.com/jinford/homeguard/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定（設定ファイル読み込み後に各コマンドがレベルを再設定する）
	logger.New(slog.LevelInfo)

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}
	propertyFlag := &cli.StringFlag{
		Name:  "property",
		Usage: "プロパティID",
	}

	app := &cli.Command{
		Name:  "homeguard",
		Usage: "物件マニュアルに基づく入居者アシスタントとメンテナンス予測システム",
		Commands: []*cli.Command{
			{
				Name:  "index",
				Usage: "マニュアルをインデックス化",
				Flags: []cli.Flag{
					envFlag,
					propertyFlag,
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "マニュアルの変更を監視して自動再インデックス",
					},
				},
				Action: commands.IndexBuildAction,
			},
			{
				Name:  "ask",
				Usage: "物件に関する質問に回答",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringFlag{
						Name:     "property",
						Usage:    "プロパティID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "question",
						Usage:    "質問文",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "質問者のロール（tenant / landlord）",
						Value: "tenant",
					},
				},
				Action: commands.AskAction,
			},
			{
				Name:  "chat",
				Usage: "会話メッセージを処理（質問回答または不具合トリアージ）",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringFlag{
						Name:     "property",
						Usage:    "プロパティID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "メッセージ本文",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "conversation",
						Usage: "会話ID",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "ユーザーID",
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "ユーザーのロール（tenant / landlord）",
						Value: "tenant",
					},
				},
				Action: commands.ChatAction,
			},
			{
				Name:  "triage",
				Usage: "不具合報告を分類",
				Flags: []cli.Flag{
					envFlag,
					propertyFlag,
					&cli.StringFlag{
						Name:     "description",
						Usage:    "不具合の内容",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "conversation",
						Usage: "会話ID",
					},
				},
				Action: commands.TriageAction,
			},
			{
				Name:  "predict",
				Usage: "メンテナンス予測を表示",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringFlag{
						Name:     "property",
						Usage:    "プロパティID",
						Required: true,
					},
				},
				Action: commands.PredictAction,
			},
			{
				Name:  "incident",
				Usage: "インシデント管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "インシデント一覧を表示",
						Flags: []cli.Flag{
							envFlag,
							&cli.StringFlag{
								Name:     "property",
								Usage:    "プロパティID",
								Required: true,
							},
						},
						Action: commands.IncidentListAction,
					},
				},
			},
			{
				Name:  "history",
				Usage: "メンテナンス履歴管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "メンテナンス履歴にイベントを追記",
						Flags: []cli.Flag{
							envFlag,
							&cli.StringFlag{
								Name:     "property",
								Usage:    "プロパティID",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "asset-id",
								Usage:    "設備ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "asset-name",
								Usage: "設備名（省略時は設備ID）",
							},
							&cli.StringFlag{
								Name:  "asset-type",
								Usage: "設備種別（boiler / hvac など）",
								Value: "other",
							},
							&cli.StringFlag{
								Name:  "date",
								Usage: "実施日（YYYY-MM-DD、省略時は当日）",
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "イベント種別（routine / repair）",
								Value: "routine",
							},
						},
						Action: commands.HistoryAddAction,
					},
				},
			},
			{
				Name:  "reply",
				Usage: "会話履歴から返信案を生成",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringSliceFlag{
						Name:  "message",
						Usage: "会話履歴（role:content 形式、複数指定可）",
					},
					&cli.StringFlag{
						Name:  "tone",
						Usage: "返信のトーン（professional / friendly / formal）",
						Value: "professional",
					},
				},
				Action: commands.ReplySuggestAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
