package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"warbler/internal/models"
)

// Preset is a hand-authored seed scenario loaded from YAML. It gives demos
// and tests deterministic accounts and content, unlike the random mesh.
type Preset struct {
	Users []PresetUser `yaml:"users"`
}

// PresetUser describes one account plus its content in a preset file.
// Follows and likes reference other users by username.
type PresetUser struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Bio      string   `yaml:"bio"`
	Location string   `yaml:"location"`
	Messages []string `yaml:"messages"`
	Follows  []string `yaml:"follows"`
	Likes    []string `yaml:"likes"` // message text prefixes to like
}

// LoadPreset parses a preset YAML file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", path, err)
	}
	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return &preset, nil
}

// Apply persists the preset: users first, then messages, then the follow and
// like references between them.
func (p *Preset) Apply(db *gorm.DB) error {
	factory, err := NewFactory(db)
	if err != nil {
		return err
	}

	byName := make(map[string]*models.User, len(p.Users))
	for _, pu := range p.Users {
		pu := pu
		user, err := factory.CreateUser(func(u *models.User) {
			u.Username = pu.Username
			if pu.Email != "" {
				u.Email = pu.Email
			}
			u.Bio = pu.Bio
			u.Location = pu.Location
		})
		if err != nil {
			return err
		}
		byName[pu.Username] = user
	}

	messagesByUser := make(map[string][]*models.Message)
	for _, pu := range p.Users {
		user := byName[pu.Username]
		for _, text := range pu.Messages {
			message := &models.Message{Text: text, UserID: user.ID}
			if err := db.Create(message).Error; err != nil {
				return fmt.Errorf("seeding preset message: %w", err)
			}
			messagesByUser[pu.Username] = append(messagesByUser[pu.Username], message)
		}
	}

	for _, pu := range p.Users {
		follower := byName[pu.Username]
		for _, targetName := range pu.Follows {
			target, ok := byName[targetName]
			if !ok {
				return fmt.Errorf("preset user %q follows unknown user %q", pu.Username, targetName)
			}
			if err := factory.CreateFollow(follower.ID, target.ID); err != nil {
				return err
			}
		}
		for _, prefix := range pu.Likes {
			message := findMessageByPrefix(messagesByUser, prefix)
			if message == nil {
				return fmt.Errorf("preset user %q likes unknown message %q", pu.Username, prefix)
			}
			if err := factory.CreateLike(follower.ID, message); err != nil {
				return err
			}
		}
	}
	return nil
}

func findMessageByPrefix(messagesByUser map[string][]*models.Message, prefix string) *models.Message {
	for _, messages := range messagesByUser {
		for _, m := range messages {
			if len(m.Text) >= len(prefix) && m.Text[:len(prefix)] == prefix {
				return m
			}
		}
	}
	return nil
}
