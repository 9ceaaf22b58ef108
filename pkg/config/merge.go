package config

// mergeLLMProviders merges built-in and user-defined LLM provider configurations.
// User-defined providers override built-in providers with the same name.
func mergeLLMProviders(builtinProviders map[string]LLMProviderConfig, userProviders map[string]LLMProviderConfig) map[string]*LLMProviderConfig {
	result := make(map[string]*LLMProviderConfig)

	for name, provider := range builtinProviders {
		providerCopy := provider
		result[name] = &providerCopy
	}

	for name, userProvider := range userProviders {
		providerCopy := userProvider
		result[name] = &providerCopy
	}

	return result
}

// mergeTaskModelMap merges the built-in task→model map with user overrides.
// User entries override built-in entries with the same task name.
func mergeTaskModelMap(builtin TaskModelMap, user TaskModelMap) TaskModelMap {
	result := make(TaskModelMap, len(builtin)+len(user))
	for task, provider := range builtin {
		result[task] = provider
	}
	for task, provider := range user {
		result[task] = provider
	}
	return result
}

// mergeIntentPatterns merges built-in and user-defined intent pattern lists.
// A user entry for an intent name replaces the built-in pattern list
// entirely rather than appending to it, so operators can fully redefine an
// intent's recognition rules.
func mergeIntentPatterns(builtin map[string][]string, user map[string][]string) map[string][]string {
	result := make(map[string][]string, len(builtin)+len(user))
	for intent, patterns := range builtin {
		patternsCopy := make([]string, len(patterns))
		copy(patternsCopy, patterns)
		result[intent] = patternsCopy
	}
	for intent, patterns := range user {
		patternsCopy := make([]string, len(patterns))
		copy(patternsCopy, patterns)
		result[intent] = patternsCopy
	}
	return result
}
