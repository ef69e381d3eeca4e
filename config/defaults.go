package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/taskchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Model: ModelConfig{
			Provider: "ollama",
			Name:     "llama3.1:latest",
		},
		Dispatch: DispatchConfig{
			UseModel:     true,
			HistoryLimit: 10,
			ListLimit:    10,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# taskchat System Configuration
# Location: ~/.config/taskchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the task database and user config are stored
data_directory = "~/.local/share/taskchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# taskchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
# API keys are read from the environment (or a .env file):
#   OPENAI_API_KEY, OPENROUTER_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY

[model]
# One of: ollama, openai, openrouter, anthropic, gemini
provider = "ollama"

# Model used to suggest task operations
name = "llama3.1:latest"

# Optional extra instructions prepended to every request
system_prompt = ""

[dispatch]
# Ask the model for a structured tool call before keyword matching
use_model = true

# Number of recent turns sent to the model as context
history_limit = 10

# Maximum tasks shown in a list reply
list_limit = 10

[user]
# Local user id. Generated on first run; every task is scoped to it.
id = ""
`
}
