package file_tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/graphdesk/graphdesk/internal/files"
	"github.com/graphdesk/graphdesk/internal/instrumentation"
	"github.com/graphdesk/graphdesk/internal/server"
	"github.com/graphdesk/graphdesk/internal/tools/batch"
	"github.com/graphdesk/graphdesk/internal/tools/common"
)

// clientForAccount returns the files client for an account, creating it on
// first use. A non-nil result is returned when the account is not usable.
func clientForAccount(ctx context.Context, sc *server.ServerContext, account string) (*files.Client, *mcp.CallToolResult) {
	if client := sc.FilesClientForAccount(account); client != nil {
		return client, nil
	}

	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, common.MissingAuthResult(account)
	}

	client, err := files.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create files client for account %s: %v", account, err))
	}
	sc.SetFilesClientForAccount(account, client)
	return client, nil
}

func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	s.AddTool(tool, common.InstrumentedToolHandlerWithService(tool.Name, instrumentation.ServiceFiles, operation, sc, handler))
}

// RegisterFileTools registers all drive-related tools with the MCP server.
// Write operations are skipped when readOnly is set.
func RegisterFileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listChildrenTool := mcp.NewTool("file_list_children",
		mcp.WithDescription("List the contents of a drive folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("itemId",
			mcp.Description("Folder item ID. Empty lists the drive root."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of items to return (default: 100)"),
		),
	)
	addTool(s, sc, listChildrenTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListChildren(ctx, request, sc)
	})

	searchFilesTool := mcp.NewTool("file_search_files",
		mcp.WithDescription("Search the drive by free text"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text (matches file names and content)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of items to return (default: 100)"),
		),
	)
	addTool(s, sc, searchFilesTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchFiles(ctx, request, sc)
	})

	getItemTool := mcp.NewTool("file_get_item",
		mcp.WithDescription("Read metadata for a drive item"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("itemId",
			mcp.Required(),
			mcp.Description("The ID of the item"),
		),
	)
	addTool(s, sc, getItemTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetItem(ctx, request, sc)
	})

	downloadFileTool := mcp.NewTool("file_download_file",
		mcp.WithDescription("Download a file's content (text returned as-is, binary base64-encoded)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("itemId",
			mcp.Required(),
			mcp.Description("The ID of the file to download"),
		),
	)
	addTool(s, sc, downloadFileTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDownloadFile(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	uploadFileTool := mcp.NewTool("file_upload_file",
		mcp.WithDescription("Upload content to a drive-relative path, creating or replacing the file"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Drive-relative destination path (e.g., 'reports/q1.txt')"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("File content"),
		),
		mcp.WithBoolean("base64Content",
			mcp.Description("Treat content as base64-encoded binary data"),
		),
	)
	addTool(s, sc, uploadFileTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUploadFile(ctx, request, sc)
	})

	deleteItemsTool := mcp.NewTool("file_delete_items",
		mcp.WithDescription("Delete one or more drive items"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("itemIds",
			mcp.Required(),
			mcp.Description("Item ID (string) or array of item IDs to delete"),
		),
	)
	addTool(s, sc, deleteItemsTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteItems(ctx, request, sc)
	})

	createFolderTool := mcp.NewTool("file_create_folder",
		mcp.WithDescription("Create a folder in the drive"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name"),
		),
		mcp.WithString("parentId",
			mcp.Description("Parent folder item ID. Empty creates the folder at the drive root."),
		),
	)
	addTool(s, sc, createFolderTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateFolder(ctx, request, sc)
	})

	return nil
}

func handleListChildren(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	itemID, _ := args["itemId"].(string)
	maxResults := 100
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int(maxVal)
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	items, err := client.ListChildren(ctx, itemID, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list children: %v", err)), nil
	}

	return mcp.NewToolResultText(formatItems(items)), nil
}

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := 100
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int(maxVal)
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	items, err := client.SearchFiles(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search files: %v", err)), nil
	}

	return mcp.NewToolResultText(formatItems(items)), nil
}

func handleGetItem(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	itemID, ok := args["itemId"].(string)
	if !ok || itemID == "" {
		return mcp.NewToolResultError("itemId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	item, err := client.GetItem(ctx, itemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get item: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", item.Name)
	if item.IsFolder() {
		fmt.Fprintf(&sb, "Type: folder (%d children)\n", item.Folder.ChildCount)
	} else if item.File != nil {
		fmt.Fprintf(&sb, "Type: file (%s)\n", item.File.MimeType)
	}
	fmt.Fprintf(&sb, "Size: %d bytes\n", item.Size)
	if item.LastModifiedDateTime != "" {
		fmt.Fprintf(&sb, "Modified: %s\n", item.LastModifiedDateTime)
	}
	if item.WebURL != "" {
		fmt.Fprintf(&sb, "Link: %s\n", item.WebURL)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleDownloadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	itemID, ok := args["itemId"].(string)
	if !ok || itemID == "" {
		return mcp.NewToolResultError("itemId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	data, err := client.DownloadFile(ctx, itemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
	}

	// Binary payloads are base64-encoded so the result stays valid text
	if utf8.Valid(data) {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText("base64:" + base64.StdEncoding.EncodeToString(data)), nil
}

func handleUploadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	content, ok := args["content"].(string)
	if !ok {
		return mcp.NewToolResultError("content is required"), nil
	}

	data := []byte(content)
	if isBase64, _ := args["base64Content"].(bool); isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("content is not valid base64: %v", err)), nil
		}
		data = decoded
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	item, err := client.UploadFile(ctx, path, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File uploaded: %s (%d bytes, ID: %s)", item.Name, item.Size, item.ID)), nil
}

func handleDeleteItems(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	itemIDs, err := batch.ParseStringOrArray(args["itemIds"], "itemIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.ProcessBatch(itemIDs, func(itemID string) (string, error) {
		if err := client.DeleteItem(ctx, itemID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Item %s deleted", itemID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	parentID, _ := args["parentId"].(string)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	folder, err := client.CreateFolder(ctx, parentID, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Folder created: %s (ID: %s)", folder.Name, folder.ID)), nil
}

func formatItems(items []files.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d items:\n", len(items))
	for i, item := range items {
		kind := "file"
		if item.IsFolder() {
			kind = "folder"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s (%d bytes, ID: %s)\n", i+1, kind, item.Name, item.Size, item.ID)
	}
	return sb.String()
}
