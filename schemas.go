package medassist

// Raw JSON schemas for the MCP tool surface.

const chatSchema = `{
  "type": "object",
  "properties": {
    "session_id": {
      "type": "string",
      "description": "Session to continue. Omit to start a new session."
    },
    "question": {
      "type": "string",
      "description": "The user question for this turn."
    },
    "category": {
      "type": "string",
      "description": "Document category filter. ALL disables filtering."
    }
  },
  "required": ["question"]
}`

const searchChunksSchema = `{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "Search query."
    },
    "category": {
      "type": "string",
      "description": "Document category filter. ALL disables filtering."
    },
    "limit": {
      "type": "integer",
      "description": "Maximum number of passages to return."
    }
  },
  "required": ["query"]
}`

const createChunksSchema = `{
  "type": "object",
  "properties": {
    "text": {
      "type": "string",
      "description": "Raw document text to split and index."
    },
    "relative_path": {
      "type": "string",
      "description": "Source path stored with every chunk."
    },
    "category": {
      "type": "string",
      "description": "Category stored with every chunk."
    }
  },
  "required": ["text"]
}`

const newSessionSchema = `{
  "type": "object",
  "properties": {
    "category": {
      "type": "string",
      "description": "Default category for the session. ALL disables filtering."
    }
  }
}`

const resetSessionSchema = `{
  "type": "object",
  "properties": {
    "session_id": {
      "type": "string",
      "description": "Session to reset."
    }
  },
  "required": ["session_id"]
}`

const listSessionsSchema = `{
  "type": "object",
  "properties": {}
}`

const resolveDocumentSchema = `{
  "type": "object",
  "properties": {
    "relative_path": {
      "type": "string",
      "description": "Document path to resolve to a presigned URL."
    }
  },
  "required": ["relative_path"]
}`
