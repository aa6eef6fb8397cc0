package kanboard

import (
	"context"
	"fmt"

	"github.com/kanwarrior/kanwarrior/internal/jsonrpc"
	"github.com/kanwarrior/kanwarrior/internal/logger"
)

// activeStatus is the Kanboard status code for tasks that are neither closed
// nor archived. Only active tasks are ever fetched.
const activeStatus = 1

// Client is a typed wrapper over the Kanboard JSON-RPC API.
type Client struct {
	rpc *jsonrpc.Client
}

// NewClient wraps an RPC client.
func NewClient(rpc *jsonrpc.Client) *Client {
	return &Client{rpc: rpc}
}

// GetAllProjects returns every board visible to the authenticated account,
// in remote order.
func (c *Client) GetAllProjects(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := c.rpc.Call(ctx, "getAllProjects", nil, &boards); err != nil {
		return nil, fmt.Errorf("get all projects: %w", err)
	}
	logger.Get(ctx).Debug().Int("boards", len(boards)).Msg("projects fetched")
	return boards, nil
}

// GetProjectByID returns one board. An unknown id is an error, not a skip.
func (c *Client) GetProjectByID(ctx context.Context, projectID int64) (Board, error) {
	var board Board
	params := map[string]interface{}{"project_id": projectID}
	if err := c.rpc.Call(ctx, "getProjectById", params, &board); err != nil {
		return Board{}, fmt.Errorf("get project %d: %w", projectID, err)
	}
	if board.ID == 0 {
		return Board{}, fmt.Errorf("get project %d: %w", projectID, jsonrpc.ErrNotFound)
	}
	return board, nil
}

// GetColumns returns the columns of a board, in remote order.
func (c *Client) GetColumns(ctx context.Context, projectID int64) ([]Column, error) {
	var columns []Column
	params := map[string]interface{}{"project_id": projectID}
	if err := c.rpc.Call(ctx, "getColumns", params, &columns); err != nil {
		return nil, fmt.Errorf("get columns for project %d: %w", projectID, err)
	}
	return columns, nil
}

// GetActiveTasks returns the active cards of a column, in remote order.
func (c *Client) GetActiveTasks(ctx context.Context, listID int64) ([]Card, error) {
	var cards []Card
	params := map[string]interface{}{"project_id": listID, "status_id": activeStatus}
	if err := c.rpc.Call(ctx, "getAllTasks", params, &cards); err != nil {
		return nil, fmt.Errorf("get tasks for list %d: %w", listID, err)
	}
	logger.Get(ctx).Debug().Int64("list_id", listID).Int("cards", len(cards)).Msg("cards fetched")
	return cards, nil
}

// GetAllComments returns the comments of a card, in remote order.
func (c *Client) GetAllComments(ctx context.Context, taskID int64) ([]Comment, error) {
	var comments []Comment
	params := map[string]interface{}{"task_id": taskID}
	if err := c.rpc.Call(ctx, "getAllComments", params, &comments); err != nil {
		return nil, fmt.Errorf("get comments for task %d: %w", taskID, err)
	}
	return comments, nil
}

// GetAllSubtasks returns the subtasks of a card, in remote order.
func (c *Client) GetAllSubtasks(ctx context.Context, taskID int64) ([]Card, error) {
	var subtasks []Card
	params := map[string]interface{}{"task_id": taskID}
	if err := c.rpc.Call(ctx, "getAllSubtasks", params, &subtasks); err != nil {
		return nil, fmt.Errorf("get subtasks for task %d: %w", taskID, err)
	}
	return subtasks, nil
}
