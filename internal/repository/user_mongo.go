package repository

import (
	"context"
	"fmt"
	"time"

	"outlethub-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepo struct {
	store *MongoStore
}

type userDoc struct {
	ID        int64     `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Provider  string    `bson:"provider"`
	Confirmed bool      `bson:"confirmed"`
	Blocked   bool      `bson:"blocked"`
	RoleID    int64     `bson:"role_id"`
	City      string    `bson:"city"`
	State     string    `bson:"state"`
	Address   string    `bson:"address"`
	Pincode   string    `bson:"pincode"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type roleDocT struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Type        string `bson:"type"`
	Description string `bson:"description"`
}

func roleDoc(r model.Role) roleDocT {
	return roleDocT{ID: r.ID, Name: r.Name, Type: r.Type, Description: r.Description}
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		ID: d.ID, Username: d.Username, Email: d.Email, Password: d.Password,
		Provider: d.Provider, Confirmed: d.Confirmed, Blocked: d.Blocked,
		RoleID: d.RoleID, City: d.City, State: d.State, Address: d.Address,
		Pincode: d.Pincode, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	id, err := r.store.nextID(ctx, "users")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := userDoc{
		ID: user.ID, Username: user.Username, Email: user.Email, Password: user.Password,
		Provider: user.Provider, Confirmed: user.Confirmed, Blocked: user.Blocked,
		RoleID: user.RoleID, City: user.City, State: user.State, Address: user.Address,
		Pincode: user.Pincode, CreatedAt: now, UpdatedAt: now,
	}
	if _, err := r.store.users.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", mapMongoErr(err))
	}
	return user, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.store.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.store.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"username": user.Username, "email": user.Email, "password": user.Password,
		"provider": user.Provider, "confirmed": user.Confirmed, "blocked": user.Blocked,
		"role_id": user.RoleID, "city": user.City, "state": user.State,
		"address": user.Address, "pincode": user.Pincode, "updated_at": user.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, mapMongoErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepo) FindByRole(ctx context.Context, roleName string) ([]*model.User, error) {
	role, err := r.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	cur, err := r.store.users.Find(ctx, bson.M{"role_id": role.ID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %q: %w", roleName, err)
	}
	defer cur.Close(ctx)

	var users []*model.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, doc.toModel())
	}
	return users, cur.Err()
}

func (r *mongoUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var doc roleDocT
	if err := r.store.roles.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return &model.Role{ID: doc.ID, Name: doc.Name, Type: doc.Type, Description: doc.Description}, nil
}

func (r *mongoUserRepo) FindRoleByID(ctx context.Context, id int64) (*model.Role, error) {
	var doc roleDocT
	if err := r.store.roles.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return &model.Role{ID: doc.ID, Name: doc.Name, Type: doc.Type, Description: doc.Description}, nil
}
