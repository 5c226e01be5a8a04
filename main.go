package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/polyglot-bot/audio"
	"github.com/mrsingh-rishi/polyglot-bot/chat"
	"github.com/mrsingh-rishi/polyglot-bot/llm"
	"github.com/mrsingh-rishi/polyglot-bot/stt"
	"github.com/mrsingh-rishi/polyglot-bot/translate"
	"github.com/mrsingh-rishi/polyglot-bot/tts"
	"github.com/mrsingh-rishi/polyglot-bot/types"
)

const defaultModel = "microsoft/DialoGPT-small"

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	deepgramApiKey := os.Getenv("DEEPGRAM_API_KEY")
	if deepgramApiKey == "" {
		logger.Fatal("DEEPGRAM_API_KEY must be set")
	}
	modelName := os.Getenv("MODEL_NAME")
	if modelName == "" {
		modelName = defaultModel
	}

	normalizer := audio.NewNormalizer(logger)
	if !normalizer.Available() {
		logger.Warn(audio.FfmpegMissingWarning)
	}

	recognizer, err := stt.NewDeepgramClient(deepgramApiKey, logger)
	if err != nil {
		logger.Fatal("failed to create recognizer", zap.Error(err))
	}

	translator := translate.NewTranslator(translate.NewGoogleBackend(), logger)

	backend, err := buildGenerationBackend(logger)
	if err != nil {
		logger.Fatal("failed to create generation backend", zap.Error(err))
	}
	engine, err := llm.NewEngine(backend, logger)
	if err != nil {
		logger.Fatal("failed to create responder engine", zap.Error(err))
	}

	synthesizer, err := buildSynthesizer(logger)
	if err != nil {
		logger.Fatal("failed to create synthesizer", zap.Error(err))
	}

	session, err := chat.NewSession(normalizer, recognizer, translator, engine, synthesizer, logger)
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		resp := fiber.Map{"status": "ok", "ffmpeg": normalizer.Available()}
		if !normalizer.Available() {
			resp["warning"] = audio.FfmpegMissingWarning
		}
		return c.JSON(resp)
	})

	app.Get("/languages", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"languages": session.Languages()})
	})

	app.Get("/transcript", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"transcript": session.Transcript()})
	})

	// POST /turn — one conversational turn: audio upload and/or typed text
	app.Post("/turn", func(c *fiber.Ctx) error {
		input := types.TurnInput{TypedText: c.FormValue("text")}

		if file, err := c.FormFile("audio"); err == nil {
			f, err := file.Open()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable audio upload"})
			}
			clip, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable audio upload"})
			}
			input.AudioClip = clip
			input.AudioName = file.Filename
		}

		lang := c.FormValue("lang", "auto")
		ttsEnabled := c.FormValue("tts") == "true" || c.FormValue("tts") == "1"
		model := c.FormValue("model", modelName)

		result, err := session.SubmitTurn(c.Context(), input, lang, ttsEnabled, model)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyInput) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":    "No input provided.",
					"warnings": result.Warnings,
				})
			}
			logger.Error("turn failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "turn failed"})
		}
		return c.JSON(result)
	})

	app.Post("/clear", func(c *fiber.Ctx) error {
		session.Clear()
		return c.JSON(fiber.Map{"message": "transcript cleared"})
	})

	// POST /reload — explicit retry for a model stuck in the unavailable state
	app.Post("/reload", func(c *fiber.Ctx) error {
		model := c.FormValue("model", modelName)
		bundle := session.Reload(c.Context(), model)
		return c.JSON(fiber.Map{"model": model, "mode": string(bundle.Mode)})
	})

	// Middleware to require WebSocket upgrade on /ws
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket handler pushing committed transcript deltas to the UI
	app.Get("/ws", websocket.New(func(ws *websocket.Conn) {
		defer ws.Close()
		logger.Info("websocket /ws connected")

		deltas, cancel := session.Subscribe()
		defer cancel()

		// drain reads so we notice the peer going away
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case delta, ok := <-deltas:
				if !ok {
					return
				}
				if err := ws.WriteJSON(delta); err != nil {
					logger.Warn("websocket write error", zap.Error(err))
					return
				}
			}
		}
	}))

	logger.Info("server listening", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildGenerationBackend picks the responder backend from LLM_BACKEND:
// the Hugging Face Inference API by default, OpenAI when configured.
func buildGenerationBackend(logger *zap.Logger) (llm.Backend, error) {
	switch os.Getenv("LLM_BACKEND") {
	case "openai":
		return llm.NewOpenAIBackend(os.Getenv("OPEN_AI_API_KEY"))
	case "huggingface", "":
		return llm.NewHFBackend(os.Getenv("HF_API_TOKEN"), logger), nil
	default:
		return nil, errors.New("LLM_BACKEND must be 'openai' or 'huggingface'")
	}
}

// buildSynthesizer picks the TTS backend from TTS_BACKEND: the Google
// Translate endpoint by default, ElevenLabs when configured.
func buildSynthesizer(logger *zap.Logger) (tts.Synthesizer, error) {
	switch os.Getenv("TTS_BACKEND") {
	case "elevenlabs":
		return tts.NewElevenLabsClient(
			os.Getenv("ELEVEN_LABS_API_KEY"),
			os.Getenv("ELEVEN_LABS_VOICE_ID"),
			"eleven_multilingual_v2",
			logger,
		)
	case "gtts", "":
		return tts.NewGoogleClient(logger), nil
	default:
		return nil, errors.New("TTS_BACKEND must be 'gtts' or 'elevenlabs'")
	}
}
