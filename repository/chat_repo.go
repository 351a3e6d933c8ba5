package repository

import (
	"context"

	"github.com/lawai/lawai-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChatRepo persists chat transcripts. It belongs to the session layer: the
// query engine itself never reads it, conversation history always arrives
// as part of the request.
type ChatRepo interface {
	CreateChat(ctx context.Context, chat *types.Chat) error
	GetChat(ctx context.Context, id string) (*types.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, message *types.ChatMessage) error
	GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error)
}

type chatRepo struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepo(db *mongo.Database) ChatRepo {
	return &chatRepo{
		chats:    db.Collection("chats"),
		messages: db.Collection("messages"),
	}
}

func (r *chatRepo) CreateChat(ctx context.Context, chat *types.Chat) error {
	_, err := r.chats.InsertOne(ctx, chat)
	return err
}

func (r *chatRepo) GetChat(ctx context.Context, id string) (*types.Chat, error) {
	var chat types.Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepo) DeleteChat(ctx context.Context, id string) error {
	if _, err := r.messages.DeleteMany(ctx, bson.M{"chat_id": id}); err != nil {
		return err
	}
	_, err := r.chats.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *chatRepo) AppendMessage(ctx context.Context, message *types.ChatMessage) error {
	_, err := r.messages.InsertOne(ctx, message)
	return err
}

func (r *chatRepo) GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.messages.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []types.ChatMessage
	for cursor.Next(ctx) {
		var msg types.ChatMessage
		if err := cursor.Decode(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, cursor.Err()
}
