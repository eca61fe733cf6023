package latticeerr

// --- Retrieval ---

func SymbolNotFound(name string) *Error {
	return New(KindNotFound, "symbol '"+name+"' not found", "check the spelling or run 'latticectl retrieve search' to find similar names")
}

func NoSearchResults(query string) *Error {
	return New(KindNotFound, "no results for '"+query+"'", "broaden the query or drop the lang:/kind: filters")
}

// --- Parsing ---

func UnsupportedLanguage(path string) *Error {
	return New(KindUnsupportedOperation, "no parser registered for "+path, "check the file extension against the enabled languages in settings.toml")
}

func GrammarLoadFailed(language string, cause error) *Error {
	return Wrap(KindParse, cause, "failed to load the "+language+" grammar", "reinstall latticectl or report a corrupted build")
}

// --- Config ---

func MalformedConfig(path string, cause error) *Error {
	return Wrap(KindConfig, cause, "could not parse "+path, "check the file for valid syntax; other configs are unaffected")
}

func SettingsInvalid(cause error) *Error {
	return Wrap(KindConfig, cause, "settings.toml is invalid", "check settings.toml against the documented schema")
}

// --- Index ---

func IndexUnwritable(path string, cause error) *Error {
	return Wrap(KindIO, cause, "cannot write to the index at "+path, "check disk space and file permissions")
}

func IndexMetaCorrupted(path string, cause error) *Error {
	return Wrap(KindIndexCorrupted, cause, "index.meta at "+path+" is corrupted", "remove the index root and reindex from scratch")
}

// --- Embedding ---

func SemanticSearchUnsupported() *Error {
	return New(KindUnsupportedOperation, "semantic_search_with_context requires an embedder", "configure BEDROCK_REGION and BEDROCK_MODEL_ID, or use 'retrieve search' instead")
}
